// Command ytscribe fetches YouTube transcripts and optionally runs them
// through an LLM cleanup/summarization step.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"ytscribe"
	"ytscribe/config"
	"ytscribe/llm"
	"ytscribe/logger"
	"ytscribe/transcript"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "fetch":
		cmdFetch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Assume a bare URL/ID is a fetch
		cmdFetch(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytscribe - YouTube transcript fetcher with LLM cleanup

Usage:
  ytscribe fetch [flags] <url-or-video-id>   Fetch a transcript
  ytscribe help                              Show this help message

Flags for fetch:
  -config string    Config file path (default: search ./ytscribe.yaml)
  -summary          Request an LLM-generated summary
  -provider string  Provider ID from the config to use
  -lang string      Caption language preference, e.g. "de,it,fr"
  -timestamps       Include timestamp links (default true)
  -interval int     Seconds between timestamps (0 = per sentence)
  -raw              Skip LLM processing even when a provider is configured

Examples:
  ytscribe fetch https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytscribe fetch -summary -lang de,en dQw4w9WgXcQ
`)
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	summary := fs.Bool("summary", false, "request an LLM-generated summary")
	provider := fs.String("provider", "", "provider ID to use")
	lang := fs.String("lang", "", "caption language preference")
	timestamps := fs.Bool("timestamps", true, "include timestamp links")
	interval := fs.Int("interval", 0, "seconds between timestamps")
	raw := fs.Bool("raw", false, "skip LLM processing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: url or video ID required")
		fs.Usage()
		os.Exit(1)
	}
	urlOrID := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Flags passed on the command line win over the config file
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["summary"] {
		cfg.Summarize = *summary
	}
	if set["lang"] {
		cfg.Languages = *lang
	}
	if set["timestamps"] {
		cfg.IncludeTimestamps = *timestamps
	}
	if set["interval"] {
		cfg.TimestampInterval = *interval
	}
	if *provider != "" {
		cfg.Provider = *provider
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	log := logger.New(cfg.Log)

	opts := ytscribe.Options{
		WantSummary:        cfg.Summarize,
		LanguagePreference: cfg.Languages,
		Format: transcript.FormatOptions{
			IncludeTimestamps: cfg.IncludeTimestamps,
			IntervalSeconds:   cfg.TimestampInterval,
			MediaDir:          cfg.MediaDir,
			MediaExt:          cfg.MediaExt,
		},
		Decider: &terminalDecider{},
		Status: func(msg string) {
			if msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
		},
		Logger: &log,
	}
	if !*raw {
		opts.Provider = cfg.ActiveProvider()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := ytscribe.Fetch(ctx, urlOrID, opts)
	if err != nil {
		if err == ytscribe.ErrUserCancelled {
			// Deliberate abort: show nothing
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("# %s\n\n", result.Title)
	if result.ChannelName != nil {
		fmt.Printf("Channel: %s\n\n", *result.ChannelName)
	}
	fmt.Println(result.Transcript)
}

// terminalDecider asks retry questions on the terminal.
type terminalDecider struct{}

func (d *terminalDecider) AskRetry(ctx context.Context, reason llm.RetryReason) llm.RetryDecision {
	if reason.RateLimited {
		fmt.Fprintf(os.Stderr, "%s rate limited the request (will wait %s before retrying).\n", reason.Provider, reason.Wait)
	} else {
		fmt.Fprintf(os.Stderr, "%s did not answer in time.\n", reason.Provider)
	}
	fmt.Fprint(os.Stderr, "[r]etry once, [u]se raw transcript, or [c]ancel? ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return llm.DecisionCancel
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "r", "retry":
		return llm.DecisionRetry
	case "u", "use", "raw":
		return llm.DecisionUseRaw
	default:
		return llm.DecisionCancel
	}
}
