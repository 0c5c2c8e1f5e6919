package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/portfolio/internal/admin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := admin.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "portfolioctl:", err)
		stop()
		os.Exit(1)
	}
}
