package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mariil/leadbot/internal/app"
)

func main() {
	ctx := context.Background()
	a, err := app.NewApp(ctx)
	if err != nil {
		logrus.Fatalf("failed to init app: %s", err.Error())
	}
	a.Run()
}
