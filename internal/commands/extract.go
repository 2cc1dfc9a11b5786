package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"gitgub.com/cam-per/gifanim/gif"
	"gitgub.com/cam-per/gifanim/internal/framefs"
	"gitgub.com/cam-per/gifanim/internal/source"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "write every composited frame to a directory",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "output directory, one subdirectory per input when there are several; existing frames are not overwritten",
				Sources: cli.EnvVars("GIFANIM_OUT"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(framefs.PNG),
				Usage:   "frame format: png, bmp or rgba.zst",
				Sources: cli.EnvVars("GIFANIM_FORMAT"),
			},
			&cli.IntFlag{
				Name:    "width",
				Usage:   "scale frames to this width",
				Sources: cli.EnvVars("GIFANIM_WIDTH"),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "inputs decoded in parallel",
				Sources: cli.EnvVars("GIFANIM_JOBS"),
			},
		},
		Action: runExtract,
	}
}

type extractJob struct {
	name string
	dir  string
}

type extractResult struct {
	frames int
	bytes  int64
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return cli.Exit("extract: no input files", 2)
	}
	format, err := framefs.ParseFormat(cmd.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	width := cmd.Int("width")
	jobs := cmd.Int("jobs")
	if jobs < 1 {
		jobs = 1
	}

	out := cmd.String("out")
	queue := make([]extractJob, len(names))
	for i, name := range names {
		queue[i] = extractJob{name: name, dir: out}
		if len(names) > 1 {
			queue[i].dir = filepath.Join(out, stem(name))
		}
	}

	w := writer(cmd)
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
		sem  = make(chan struct{}, jobs)
	)
	for _, job := range queue {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := extract(ctx, job, format, width)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				Fail(w, fmt.Errorf("%s: %w", job.name, err))
				errs = append(errs, err)
				return
			}
			title.Fprintf(w, "%s", job.name)
			fmt.Fprintf(w, " -> %s: %s frames, %s\n", job.dir, humanize.Comma(int64(res.frames)), humanize.Bytes(uint64(res.bytes)))
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func extract(ctx context.Context, job extractJob, format framefs.Format, width int) (extractResult, error) {
	anim, err := source.Decode(ctx, job.name, gif.WithLogger(logger.With("file", job.name)))
	if err != nil {
		return extractResult{}, err
	}
	fsys, err := framefs.New(anim, format, width)
	if err != nil {
		return extractResult{}, err
	}

	if err := os.MkdirAll(job.dir, 0o755); err != nil {
		return extractResult{}, err
	}
	if err := os.CopyFS(job.dir, fsys); err != nil {
		return extractResult{}, err
	}

	res := extractResult{frames: len(anim.Frames)}
	err = fs.WalkDir(fsys, ".", func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		res.bytes += info.Size()
		return nil
	})
	return res, err
}

// stem is the base name of an input without its extension, used to name
// its output directory.
func stem(name string) string {
	base := filepath.Base(name)
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "-" || base == string(filepath.Separator) {
		return "stdin"
	}
	return base
}
