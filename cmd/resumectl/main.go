package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kailas-cloud/resumechat/internal/app"
	"github.com/kailas-cloud/resumechat/internal/cli"
	"github.com/kailas-cloud/resumechat/internal/config"
	logpkg "github.com/kailas-cloud/resumechat/internal/logger"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger("cli", os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	root := cli.NewRootCommand(func(ctx context.Context) (cli.Services, func(), error) {
		a, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return cli.Services{}, nil, err
		}
		return cli.Services{Documents: a.Documents, Search: a.Retrieval, Answer: a.Answer}, a.Close, nil
	})
	root.SetOut(os.Stdout)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
