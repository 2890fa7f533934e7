package main

import (
	"os"

	"k8s.io/klog/v2"

	"github.com/thalesfsp/suggest/cmd/suggestd/app"
)

func main() {
	defer klog.Flush()

	if err := app.NewCommand().Execute(); err != nil {
		klog.ErrorS(err, "suggestd exited")
		klog.Flush()
		os.Exit(1)
	}
}
