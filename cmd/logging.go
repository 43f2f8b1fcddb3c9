package cmd

import (
	"log"
	"os"
)

func newStdLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}
