package tabref

// Outcome classifies the result of reconciling one reference file.
type Outcome int

const (
	// OutcomeFailed means reconciliation stopped on one of the FailureKinds.
	OutcomeFailed Outcome = iota
	// OutcomeDownloadedNew means the canonical file was absent and a fresh
	// copy was downloaded.
	OutcomeDownloadedNew
	// OutcomeReplacedExpired means the expired file was archived under a
	// date-stamped name and replaced by a fresh download.
	OutcomeReplacedExpired
	// OutcomeStillValid means the file exists, parses and has not expired.
	// Nothing on disk was touched.
	OutcomeStillValid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloadedNew:
		return "downloaded-new"
	case OutcomeReplacedExpired:
		return "replaced-expired"
	case OutcomeStillValid:
		return "still-valid"
	default:
		return "failed"
	}
}
