package main

import (
	"context"
	"os"

	"k8s.io/klog/v2"

	"github.com/moobench/anymop/cmd/anymop/app"
)

func main() {
	defer klog.Flush()

	ctx := klog.NewContext(context.Background(), klog.Background())
	if err := app.NewAnymopCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
