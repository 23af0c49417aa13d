package cli

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/yonasBSD/mako/internal/cli_helpers"
	"github.com/yonasBSD/mako/internal/config"
	"github.com/yonasBSD/mako/internal/exitcode"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/pkg/api"
	"github.com/yonasBSD/mako/pkg/repl"
)

type runOptions struct {
	transform  api.TransformOptions
	configFile string
	outdir     string
	files      []string
	repl       bool
	watch      bool

	// Values from the command line take precedence over the config file
	hasPlatform    bool
	hasRequireName bool
}

func newRunOptions() runOptions {
	return runOptions{
		transform: api.TransformOptions{
			Providers: make(map[string]api.Provider),

			// Apply defaults appropriate for the CLI
			ErrorLimit: 10,
			LogLevel:   api.LogLevelInfo,
		},
	}
}

func parseOptionsImpl(osArgs []string, options *runOptions) error {
	for _, arg := range osArgs {
		switch {
		case arg == "--minify-whitespace":
			options.transform.MinifyWhitespace = true

		case arg == "--ascii-only":
			options.transform.ASCIIOnly = true

		case arg == "--repl":
			options.repl = true

		case arg == "--watch":
			options.watch = true

		case strings.HasPrefix(arg, "--provide:"):
			value := arg[len("--provide:"):]
			equals := strings.IndexByte(value, '=')
			if equals == -1 {
				return exitcode.Usagef("Missing \"=\" in %q", arg)
			}
			name := value[:equals]
			p, err := config.ParseProvider(value[equals+1:])
			if err != nil {
				return exitcode.Set(err, exitcode.Usage)
			}
			options.transform.Providers[name] = api.Provider{Module: p.Module, Member: p.Member}

		case strings.HasPrefix(arg, "--require-name="):
			options.transform.RequireName = arg[len("--require-name="):]
			options.hasRequireName = true

		case strings.HasPrefix(arg, "--platform="):
			platform, err := cli_helpers.ParsePlatform(arg[len("--platform="):])
			if err != nil {
				return exitcode.Set(err, exitcode.Usage)
			}
			options.transform.Platform = platform
			options.hasPlatform = true

		case strings.HasPrefix(arg, "--config="):
			options.configFile = arg[len("--config="):]

		case strings.HasPrefix(arg, "--outdir="):
			options.outdir = arg[len("--outdir="):]

		case strings.HasPrefix(arg, "--sourcefile="):
			options.transform.Sourcefile = arg[len("--sourcefile="):]

		case strings.HasPrefix(arg, "--indent="):
			value := arg[len("--indent="):]
			indent, err := strconv.Atoi(value)
			if err != nil || indent < 0 {
				return exitcode.Usagef("Invalid indent value: %q", value)
			}
			options.transform.Indent = indent

		case strings.HasPrefix(arg, "--error-limit="):
			value := arg[len("--error-limit="):]
			limit, err := strconv.Atoi(value)
			if err != nil || limit < 0 {
				return exitcode.Usagef("Invalid error limit: %q", value)
			}
			options.transform.ErrorLimit = limit

		case arg == "--color" || strings.HasPrefix(arg, "--color="):
			color, err := cli_helpers.ParseColor(strings.TrimPrefix(strings.TrimPrefix(arg, "--color"), "="))
			if err != nil {
				return exitcode.Set(err, exitcode.Usage)
			}
			options.transform.Color = color

		case strings.HasPrefix(arg, "--log-level="):
			level, err := cli_helpers.ParseLogLevel(arg[len("--log-level="):])
			if err != nil {
				return exitcode.Set(err, exitcode.Usage)
			}
			options.transform.LogLevel = level

		case !strings.HasPrefix(arg, "-"):
			options.files = append(options.files, arg)

		default:
			return exitcode.Usagef("Invalid flag: %q", arg)
		}
	}

	if options.repl && len(options.files) > 0 {
		return exitcode.Usagef("Cannot use \"--repl\" with input files")
	}
	if options.watch && len(options.files) == 0 {
		return exitcode.Usagef("Cannot use \"--watch\" without input files")
	}
	if options.outdir == "" && len(options.files) > 1 {
		return exitcode.Usagef("Must use \"--outdir\" when there are multiple input files")
	}
	return nil
}

func platformFromConfig(platform config.Platform) api.Platform {
	switch platform {
	case config.PlatformNode:
		return api.PlatformNode
	case config.PlatformNeutral:
		return api.PlatformNeutral
	default:
		return api.PlatformBrowser
	}
}

// Fills in everything the command line didn't set from the config file
func applyConfigFile(osArgs []string, options *runOptions) error {
	contents, err := ioutil.ReadFile(options.configFile)
	if err != nil {
		return fmt.Errorf("Could not read config file: %s", err.Error())
	}

	log := logger.NewDeferLog()
	file, ok := config.ParseConfigFile(log, logger.Source{
		PrettyPath: options.configFile,
		Contents:   string(contents),
	})
	msgs := log.Done()
	for _, msg := range msgs {
		logger.PrintMessageToStderr(osArgs, msg)
	}
	if !ok || log.HasErrors() {
		return exitcode.ErrReported
	}

	for name, p := range file.Providers {
		if _, ok := options.transform.Providers[name]; !ok {
			options.transform.Providers[name] = api.Provider{Module: p.Module, Member: p.Member}
		}
	}
	if file.RequireName != "" && !options.hasRequireName {
		options.transform.RequireName = file.RequireName
	}
	if file.Platform != nil && !options.hasPlatform {
		options.transform.Platform = platformFromConfig(*file.Platform)
	}
	return nil
}

func runImpl(osArgs []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	options := newRunOptions()
	if err := parseOptionsImpl(osArgs, &options); err != nil {
		return err
	}
	if options.configFile != "" {
		if err := applyConfigFile(osArgs, &options); err != nil {
			return err
		}
	}

	if options.repl {
		return repl.Run(options.transform, stdin, stdout, stderr)
	}

	transformer := api.NewTransformer(options.transform)

	if len(options.files) == 0 {
		// Read the input from stdin
		bytes, err := ioutil.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("Could not read from stdin: %s", err.Error())
		}
		return writeResult(transformer.Transform(string(bytes), ""), stdout)
	}

	// Snapshot the inputs before the first transform so no edit is missed
	var w *watcher
	if options.watch {
		w = newWatcher(options.files)
	}

	var err error
	if options.outdir == "" {
		if w != nil {
			w.retransform = func(path string) {
				transformFileToWriter(osArgs, transformer, path, stdout)
			}
		}
		err = transformFileToWriter(osArgs, transformer, options.files[0], stdout)
	} else {
		var outputPaths map[string]string
		if outputPaths, err = outputPathsForFiles(options.files, options.outdir); err != nil {
			return err
		}
		if w != nil {
			w.retransform = func(path string) {
				transformFileToPath(osArgs, transformer, path, outputPaths[path])
			}
		}
		err = transformFilesToDir(osArgs, transformer, options.files, outputPaths, options.outdir)
	}

	if w == nil {
		return err
	}

	// Keep going after errors since the next edit may fix them
	w.shouldLog = options.transform.LogLevel == api.LogLevelInfo
	w.color = colorForStatusText(options.transform.Color)
	w.start()

	// Never return from watch mode
	<-make(chan struct{})
	return nil
}

func colorForStatusText(color api.StderrColor) logger.StderrColor {
	switch color {
	case api.ColorNever:
		return logger.ColorNever
	case api.ColorAlways:
		return logger.ColorAlways
	default:
		return logger.ColorIfTerminal
	}
}

func writeResult(result api.TransformResult, stdout io.Writer) error {
	if len(result.Errors) > 0 {
		return exitcode.ErrReported
	}
	if _, err := stdout.Write(result.Code); err != nil {
		return fmt.Errorf("Failed to write to stdout: %s", err.Error())
	}
	return nil
}

func transformFileToWriter(osArgs []string, transformer *api.Transformer, file string, w io.Writer) error {
	contents, err := ioutil.ReadFile(file)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Could not read from file: %s", err.Error()))
		return exitcode.ErrReported
	}
	return writeResult(transformer.Transform(string(contents), file), w)
}

// Returns false if the file couldn't be transformed. Problems have already
// been printed.
func transformFileToPath(osArgs []string, transformer *api.Transformer, file string, outputPath string) bool {
	contents, err := ioutil.ReadFile(file)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Could not read from file: %s", err.Error()))
		return false
	}

	result := transformer.Transform(string(contents), file)
	if len(result.Errors) > 0 {
		return false
	}

	if err := ioutil.WriteFile(outputPath, result.Code, 0644); err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Failed to write to output file: %s", err.Error()))
		return false
	}
	return true
}

// Each input file is written to "<outdir>/<base name>"
func outputPathsForFiles(files []string, outdir string) (map[string]string, error) {
	outputPaths := make(map[string]string, len(files))
	seen := make(map[string]string)
	for _, file := range files {
		outputPath := filepath.Join(outdir, filepath.Base(file))
		if other, ok := seen[outputPath]; ok {
			return nil, exitcode.Usagef("Two input files would be written to %q: %q and %q", outputPath, other, file)
		}
		seen[outputPath] = file
		outputPaths[file] = outputPath
	}
	return outputPaths, nil
}

// Each file is transformed on its own goroutine. The transformer and its
// provider table are shared by all of them.
func transformFilesToDir(osArgs []string, transformer *api.Transformer, files []string, outputPaths map[string]string, outdir string) error {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return fmt.Errorf("Failed to create output directory: %s", err.Error())
	}

	failed := make([]bool, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			failed[i] = !transformFileToPath(osArgs, transformer, file, outputPaths[file])
		}(i, file)
	}
	wg.Wait()

	for _, f := range failed {
		if f {
			return exitcode.ErrReported
		}
	}
	return nil
}
