// Package porting implements porting commands of the program.
package porting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"docsync/common"
	"docsync/config"
	"docsync/state"
	"docsync/summary"
	"docsync/todocs"
	"docsync/tripleslash"
)

// Stdout receives summary, replaced in tests.
var Stdout io.Writer = os.Stdout

// locations makes paths absolute and checks they exist.
func locations(paths []string) ([]string, error) {
	res := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("location does not exist: %w", err)
		}
		res = append(res, abs)
	}
	return res, nil
}

// prepare applies command line to configuration and verifies result before
// anything is touched.
func prepare(cmd *cli.Command, env *state.LocalEnv, dir common.PortDirection) error {
	apply(cmd, env.Cfg)
	if err := env.Cfg.Verify(); err != nil {
		return fmt.Errorf("bad configuration: %w", err)
	}
	env.Direction = dir

	var err error
	if env.DocsDirs, err = locations(cmd.StringSlice("docs")); err != nil {
		return err
	}
	switch dir {
	case common.PortDirectionTodocs:
		env.IntelliSense, err = locations(cmd.StringSlice("intellisense"))
	case common.PortDirectionTotripleslash:
		env.SourceDirs, err = locations(cmd.StringSlice("source"))
	}
	return err
}

// porter is what both directions have in common.
type porter interface {
	Start(ctx context.Context) error
}

// RunToDocs ports IntelliSense documentation into Docs XML files.
func RunToDocs(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, common.PortDirectionTodocs)
}

// RunToTripleSlash ports Docs documentation into triple slash comments.
func RunToTripleSlash(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, common.PortDirectionTotripleslash)
}

func run(ctx context.Context, cmd *cli.Command, dir common.PortDirection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	if err := prepare(cmd, env, dir); err != nil {
		return err
	}
	log := env.Log.Named(dir.String())
	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	sum := summary.New(env.RunID, dir)
	var p porter
	switch dir {
	case common.PortDirectionTodocs:
		p = todocs.New(env.Cfg, env.DocsDirs, env.IntelliSense, env.Rpt, sum, log)
	default:
		p = tripleslash.New(env.Cfg, env.DocsDirs, env.SourceDirs, env.Rpt, sum, log)
	}

	log.Info("Porting starting", zap.Stringer("direction", dir), zap.Strings("docs", env.DocsDirs), zap.Bool("save", env.Cfg.Porting.Save))
	defer func(start time.Time) {
		log.Info("Porting completed", zap.Duration("elapsed", time.Since(start)),
			zap.Int("saved", sum.Files()), zap.Int("undocumented apis", sum.UndocumentedCount()))
	}(time.Now())

	err := p.Start(ctx)
	if rerr := report(env.Cfg, env.Rpt, sum); rerr != nil {
		log.Warn("Unable to output summary", zap.Error(rerr))
	}
	return err
}

// report prints summary and keeps a copy of it in debug report.
func report(cfg *config.Config, rpt *config.Report, sum *summary.Summary) error {
	if err := sum.Render(Stdout, cfg.Porting.PrintSummaryDetails, cfg.Porting.PrintUndoc); err != nil {
		return err
	}
	if rpt == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := sum.Render(&buf, true, true); err != nil {
		return err
	}
	rpt.StoreData("summary.txt", buf.Bytes())
	return nil
}
