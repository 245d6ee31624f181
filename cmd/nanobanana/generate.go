package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"nanobanana/internal/domain"
	"nanobanana/internal/editor"
	"nanobanana/internal/gallery"
	"nanobanana/internal/notify"
	"nanobanana/internal/providers/image"
)

type generateOptions struct {
	image       string
	prompt      string
	style       string
	consistency int
	resolution  string
	out         string
}

func newGenerateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Edit an image with a prompt and a style",
		Example: `  nanobanana generate --image cat.jpg --prompt "turn my cat into a pixar hero" --style pixar
  nanobanana generate --image street.png --prompt "comic book night scene" --style "comic art" --consistency 30 --out comic.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, global, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.image, "image", "", "base image (JPEG or PNG, at most 5MB)")
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "describe the edit")
	flags.StringVar(&opts.style, "style", string(domain.DefaultStyle), "Pixar, Comic Art, Animation, Realistic or Vintage")
	flags.IntVar(&opts.consistency, "consistency", domain.DefaultConsistency, "0 favours the prompt, 100 favours the source photo")
	flags.StringVar(&opts.resolution, "resolution", string(domain.DefaultResolution), "512x512, 1024x1024 or 1536x1536")
	flags.StringVarP(&opts.out, "out", "o", gallery.ResultFilename, "where to write the generated image")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func runGenerate(cmd *cobra.Command, global *globalOptions, opts *generateOptions) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, global)
	if err != nil {
		return err
	}
	defer s.Close()

	imageEditor, err := image.NewFromConfig(s.cfg, &s.logger)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	notifier := notify.New()
	notifier.Subscribe(func(n *notify.Notification) {
		if n != nil {
			fmt.Fprintf(errOut, "[%s] %s\n", n.Kind, n.Message)
		}
	})

	ed := editor.New(ctx, editor.Options{
		Editor:   imageEditor,
		Store:    s.store,
		Notifier: notifier,
		Logger:   &s.logger,
	})
	ed.Subscribe(attemptReporter(errOut))

	f, err := os.Open(opts.image)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReadImage, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", domain.ErrReadImage, err)
	}
	err = ed.Upload(ctx, filepath.Base(opts.image), info.Size(), f)
	f.Close()
	if err != nil {
		return err
	}

	if err := ed.Apply(editor.OptionsUpdate{
		Prompt:      &opts.prompt,
		Style:       &opts.style,
		Consistency: &opts.consistency,
		Resolution:  &opts.resolution,
	}); err != nil {
		return err
	}

	result, err := ed.Generate(ctx)
	if err != nil {
		var failed *domain.GenerationFailedError
		if errors.As(err, &failed) {
			return errors.New(editor.MessageFor(err))
		}
		return err
	}

	if err := os.WriteFile(opts.out, result.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), opts.out)
	return nil
}

// attemptReporter prints each attempt number once. Snapshots can arrive from
// notification timer goroutines as well as from the generation itself.
func attemptReporter(w io.Writer) func(editor.State) {
	last := atomic.NewInt64(0)
	return func(st editor.State) {
		if !st.Loading {
			return
		}
		attempt := int64(st.Attempt)
		for {
			prev := last.Load()
			if attempt <= prev {
				return
			}
			if last.CompareAndSwap(prev, attempt) {
				break
			}
		}
		fmt.Fprintf(w, "generating (attempt %d)...\n", st.Attempt)
	}
}
