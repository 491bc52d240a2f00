// Copyright 2025 The PenServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the text generation server and CLI application.

PenServe generates pseudo-random text by sampling a variable-order Markov
chain straight off a token corpus, using a suffix order index instead of a
transition table. It can operate as a msgpack IPC server for integration
with other tools, or as an interactive CLI for testing and debugging.

# Usage

Generate from a corpus file with default settings:

	penserve -data corpus.txt -c

Start the IPC server with a custom order:

	penserve -data corpus.txt -order 3

One-shot generation to stdout:

	penserve -data corpus.txt -once -n 100

The corpus file is tokenized according to the -tok flag: "words" splits on
whitespace, "chars" makes one token per rune, "regex" splits on -pattern.

# Configuration

Runtime configuration is managed through a TOML file supporting generation
defaults, server limits, and CLI defaults:

	[gen]
	order = 2
	max_tokens = 200
	separator = " "
	tokenizer = "words"

	[server]
	max_limit = 2048
	max_order = 16

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via msgpack over stdin/stdout. Render requests are
processed synchronously with microsecond timing in responses:

	{"id": "req1", "action": "render", "o": 2, "l": 80}
	{"id": "req1", "toks": [...], "c": 80, "t": 145}

Info and config actions expose corpus stats and runtime default updates;
see the server package docs for the full message set.

# Generation Engine

The core is the pen package: an immutable corpus plus a suffix order
index, rendered lazily per request.

	p, _ := pen.NewFromTokens(tokens)
	stream, _ := p.Render(2)
	text, _ := stream.Text(100, " ")

Renders are independent; any number can run concurrently over one pen.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/penserve/internal/cli"
	"github.com/bastiangx/penserve/pkg/config"
	"github.com/bastiangx/penserve/pkg/pen"
	"github.com/bastiangx/penserve/pkg/server"
	"github.com/bastiangx/penserve/pkg/tokenizer"
	"github.com/bastiangx/penserve/pkg/vocab"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "penserve"
	gh      = "https://github.com/bastiangx/penserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the corpus, pen, and chosen front end together.
// It does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataFile := flag.String("data", "", "Corpus text file to generate from")
	configPath := flag.String("config", "", "Custom config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	onceMode := flag.Bool("once", false, "Generate once to stdout and exit")
	order := flag.Int("order", defaults.Gen.Order, "Markov order (how many recent tokens condition the next one)")
	count := flag.Int("n", defaults.Gen.MaxTokens, "Maximum tokens to generate")
	seed := flag.Int64("seed", 0, "PRNG seed for reproducible output (0 = random)")
	tokMode := flag.String("tok", defaults.Gen.Tokenizer, "Tokenizer: words, chars, or regex")
	pattern := flag.String("pattern", defaults.Gen.Pattern, "Split pattern for -tok regex")
	sentinel := flag.String("sentinel", pen.DefaultSentinel, "Token value that terminates generation")
	fold := flag.Bool("fold", false, "Compare tokens case-insensitively")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if *dataFile == "" {
		log.Fatal("No corpus file given, use -data <file>")
	}
	tokens, err := loadTokens(*dataFile, *tokMode, *pattern)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	log.Debugf("Loaded %d tokens from %s", len(tokens), *dataFile)

	cmp := pen.OrdinalCompare
	if *fold {
		cmp = pen.FoldCompare
	}
	corpus, err := pen.NewCorpus(tokens, *sentinel, cmp, appConfig.Gen.Intern)
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}
	p, err := pen.New(corpus)
	if err != nil {
		log.Fatalf("Failed to build pen: %v", err)
	}
	v := vocab.Build(tokens)
	log.Debugf("Index ready: %d positions, %d distinct tokens", p.Index().Len(), v.Distinct())

	sep := separatorFor(*tokMode, appConfig)

	if *onceMode {
		stream, err := renderStream(p, *order, *seed)
		if err != nil {
			log.Fatalf("Render: %v", err)
		}
		text, err := stream.Text(*count, sep)
		if err != nil {
			log.Fatalf("Render aborted: %v", err)
		}
		fmt.Println(text)
		return
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(p, v, *order, *count, appConfig.CLI.VocabLimit, sep)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(p, v, appConfig, config.GetActiveConfigPath(activePath))
	showStartupInfo(*dataFile, len(tokens))
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadTokens reads the corpus file and runs the selected tokenizer.
func loadTokens(path, mode, pattern string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)

	var tok tokenizer.Tokenizer
	switch mode {
	case "chars":
		tok = tokenizer.Chars{}
	case "regex":
		tok, err = tokenizer.NewPatternSplit(pattern, tokenizer.Options{})
		if err != nil {
			return nil, err
		}
	case "words":
		tok = tokenizer.Split{}
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", mode)
	}
	return tok.Tokenize(text), nil
}

// separatorFor joins char tokens without spaces, everything else with the
// configured separator.
func separatorFor(mode string, cfg *config.Config) string {
	if mode == "chars" {
		return ""
	}
	return cfg.Gen.Separator
}

func renderStream(p *pen.Pen, order int, seed int64) (*pen.Stream, error) {
	if seed != 0 {
		return p.RenderSeeded(order, seed)
	}
	return p.Render(order)
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ PenServe ] Markov text generation over a suffix order index")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataFile string, tokens int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("corpus: ( %s ) %d tokens", dataFile, tokens)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
