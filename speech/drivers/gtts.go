package drivers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/storyspeak/storyspeak/speech"
)

// otoContext is process-wide: oto permits a single audio context per
// process, mirroring the one-utterance-at-a-time contract of the driver.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func audioContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		options := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(options)
		if err != nil {
			otoErr = fmt.Errorf("%w: %v", speech.ErrDeviceBusy, err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// GTTS synthesizes speech with the gtts-cli tool (Google Translate TTS),
// transcodes the MP3 to raw PCM with ffmpeg, and plays it through oto.
// Synthesis needs the network; there are no boundary callbacks.
type GTTS struct {
	cfg speech.GTTSConfig

	mu        sync.Mutex
	player    *oto.Player
	cancel    context.CancelFunc
	cancelled bool
	tempDir   string
}

// NewGTTS creates a gtts driver, verifying its external tools exist.
func NewGTTS(cfg speech.GTTSConfig) (*GTTS, error) {
	if _, err := exec.LookPath(cfg.Binary); err != nil {
		return nil, fmt.Errorf("%w: %s not found (pip install gTTS)", speech.ErrVoiceUnavailable, cfg.Binary)
	}
	if _, err := exec.LookPath(cfg.FFmpegBinary); err != nil {
		return nil, fmt.Errorf("%w: %s not found", speech.ErrVoiceUnavailable, cfg.FFmpegBinary)
	}

	tempDir := filepath.Join(os.TempDir(), "storyspeak-gtts")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	return &GTTS{cfg: cfg, tempDir: tempDir}, nil
}

// Name returns the driver identifier.
func (g *GTTS) Name() string { return "gtts" }

// Capabilities returns the driver's capabilities.
func (g *GTTS) Capabilities() speech.Capabilities {
	return speech.Capabilities{BoundaryEventsReliable: false}
}

// Speak synthesizes and plays text. Synthesis and transcoding happen in the
// background; playback completion or failure arrives through h.
func (g *GTTS) Speak(text, lang string, rate float64, h speech.Handlers) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelLocked()

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.Timeout)
	g.cancel = cancel
	g.cancelled = false

	go g.run(ctx, text, lang, rate, h)
	return nil
}

func (g *GTTS) run(ctx context.Context, text, lang string, rate float64, h speech.Handlers) {
	pcm, err := g.synthesize(ctx, text, lang, rate)
	if err != nil {
		g.mu.Lock()
		cancelled := g.cancelled
		g.mu.Unlock()
		if cancelled {
			err = speech.ErrInterrupted
		}
		if h.OnError != nil {
			h.OnError(err)
		}
		return
	}

	audio, err := audioContext(g.cfg.SampleRate)
	if err != nil {
		if h.OnError != nil {
			h.OnError(err)
		}
		return
	}

	player := audio.NewPlayer(bytes.NewReader(pcm))
	g.mu.Lock()
	if g.cancelled {
		g.mu.Unlock()
		_ = player.Close()
		if h.OnError != nil {
			h.OnError(speech.ErrInterrupted)
		}
		return
	}
	g.player = player
	g.mu.Unlock()

	player.Play()
	log.Debug("gtts playback started", "bytes", len(pcm), "lang", lang)

	for {
		time.Sleep(50 * time.Millisecond)

		g.mu.Lock()
		cancelled := g.cancelled
		current := g.player == player
		g.mu.Unlock()

		if cancelled || !current {
			if h.OnError != nil {
				h.OnError(speech.ErrInterrupted)
			}
			return
		}
		if !player.IsPlaying() {
			break
		}
	}

	g.mu.Lock()
	if g.player == player {
		g.player = nil
	}
	g.mu.Unlock()
	_ = player.Close()

	if h.OnEnd != nil {
		h.OnEnd()
	}
}

// synthesize runs gtts-cli then ffmpeg, returning mono 16-bit PCM. The rate
// multiplier is applied with ffmpeg's atempo filter so pitch is preserved.
func (g *GTTS) synthesize(ctx context.Context, text, lang string, rate float64) ([]byte, error) {
	mp3Path := filepath.Join(g.tempDir, fmt.Sprintf("utterance-%d.mp3", time.Now().UnixNano()))
	defer os.Remove(mp3Path)

	gtts := exec.CommandContext(ctx, g.cfg.Binary, "-l", lang, "-o", mp3Path, "-")
	gtts.Stdin = strings.NewReader(text)
	var gttsErr bytes.Buffer
	gtts.Stderr = &gttsErr

	if err := gtts.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: synthesis timed out", speech.ErrNetwork)
		}
		lower := strings.ToLower(gttsErr.String())
		if strings.Contains(lower, "connection") || strings.Contains(lower, "network") ||
			strings.Contains(lower, "resolve") {
			return nil, fmt.Errorf("%w: %s", speech.ErrNetwork, strings.TrimSpace(gttsErr.String()))
		}
		return nil, fmt.Errorf("%w: %v", speech.ErrSynthesisFailed, err)
	}

	ffmpeg := exec.CommandContext(ctx, g.cfg.FFmpegBinary,
		"-i", mp3Path,
		"-filter:a", fmt.Sprintf("atempo=%.2f", rate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", g.cfg.SampleRate),
		"-ac", "1",
		"pipe:1",
	)
	var pcm bytes.Buffer
	ffmpeg.Stdout = &pcm

	if err := ffmpeg.Run(); err != nil {
		return nil, fmt.Errorf("%w: transcoding failed: %v", speech.ErrSynthesisFailed, err)
	}

	return pcm.Bytes(), nil
}

// Cancel stops the in-flight utterance, if any.
func (g *GTTS) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
}

func (g *GTTS) cancelLocked() {
	if g.cancel != nil {
		g.cancelled = true
		g.cancel()
		g.cancel = nil
	}
	if g.player != nil {
		_ = g.player.Close()
		g.player = nil
	}
}
