package main

import (
	"fmt"
	"os"

	"go.uber.org/fx"
)

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := fx.New(appOptions(cfg, runtimeIO{out: os.Stdout}))
	if err = runApp(app); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
