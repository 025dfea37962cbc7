package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	voicechat "github.com/koscakluka/tonechat/core"
	"github.com/koscakluka/tonechat/core/audio/miniaudio"
	"github.com/koscakluka/tonechat/core/audio/portaudio"
	"github.com/koscakluka/tonechat/core/replies/httpapi"
	sttdeepgram "github.com/koscakluka/tonechat/core/speechtotext/deepgram"
	ttsdeepgram "github.com/koscakluka/tonechat/core/texttospeech/deepgram"
	"github.com/koscakluka/tonechat/internal/config"
	"github.com/koscakluka/tonechat/internal/tui"
)

func main() {
	var configPath string
	var printContract bool
	flag.StringVar(&configPath, "config", "tonechat.yaml", "Path to config YAML")
	flag.BoolVar(&printContract, "contract", false, "Print the JSON schema of the speech endpoint and exit")
	flag.Parse()

	if printContract {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(httpapi.GetContract()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to print contract: %v\n", err)
			os.Exit(1)
		}
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	// The terminal belongs to the UI, std log goes to a file.
	if cfg.Log.File != "" {
		logFile, err := tea.LogToFile(cfg.Log.File, "tonechat")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []voicechat.ControllerOption{
		voicechat.WithLocale(cfg.Speech.Locale),
		voicechat.WithInterimResults(cfg.Speech.InterimResults),
	}

	audioClient, err := openAudio(cfg.Audio)
	if err != nil {
		log.Printf("audio devices unavailable: %v", err)
	} else {
		defer audioClient.Close()
	}

	// Without a device the recognizer fails its capability check.
	var input sttdeepgram.AudioInput
	if audioClient != nil {
		input = audioClient
	}
	recognizer := sttdeepgram.NewRecognizer(input,
		sttdeepgram.WithAPIKey(cfg.APIKey()),
		sttdeepgram.WithModel(cfg.Deepgram.Model),
	)
	opts = append(opts, voicechat.WithSpeechToTextClient(recognizer))

	if audioClient != nil {
		synthesizer, err := ttsdeepgram.NewSynthesizer(audioClient,
			ttsdeepgram.WithAPIKey(cfg.APIKey()),
			ttsdeepgram.WithVoice(ttsdeepgram.Voice(cfg.Deepgram.Voice)),
		)
		if err != nil {
			return fmt.Errorf("failed to create synthesizer: %w", err)
		}
		opts = append(opts, voicechat.WithTextToSpeechClient(synthesizer))
	}

	replyClient, err := httpapi.NewClient(cfg.Endpoint.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create endpoint client: %w", err)
	}
	opts = append(opts, voicechat.WithReplyGenerator(replyClient))

	presenter := tui.NewPresenter()
	controller := voicechat.New(append(opts, voicechat.WithPresenter(presenter))...)
	if err := controller.Unsupported(); err != nil {
		log.Printf("speech input unavailable: %v", err)
	}

	program := tea.NewProgram(
		tui.NewModel(controller, controller.View()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	go presenter.Run(ctx, program)

	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("controller stopped: %v", err)
		}
	}()

	_, err = program.Run()
	cancel()
	<-controllerDone

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui failed: %w", err)
	}
	return nil
}

type audioDevice interface {
	sttdeepgram.AudioInput
	ttsdeepgram.AudioOutput
	Close()
}

func openAudio(cfg config.AudioConfig) (audioDevice, error) {
	switch cfg.Backend {
	case config.BackendPortaudio:
		client, err := portaudio.NewClient(cfg.FramesPerBuffer)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
