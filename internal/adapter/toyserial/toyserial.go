package toyserial

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/metrics"
	"github.com/shockbridge/shockbridge/pkg/lovense"

	"go.uber.org/zap"
)

const (
	ADAPTER_NAME = "serial"
	SOURCE       = "serial"
)

// Adapter emulates a two motor Lovense toy on one end of a virtual serial
// pair. Toy control software connects to the other end.
type Adapter struct {
	sink   port.ChannelSink
	logger *zap.Logger
}

func NewAdapter(sink port.ChannelSink, logger *zap.Logger) *Adapter {
	return &Adapter{
		sink:   sink,
		logger: logger.With(zap.String("adapter", ADAPTER_NAME)),
	}
}

// Serve reads frames from rw until it fails or ctx is done. Closing rw is
// the caller's job; it also unblocks a pending read.
func (a *Adapter) Serve(ctx context.Context, rw io.ReadWriter) error {
	scanner := bufio.NewScanner(rw)
	scanner.Split(lovense.ScanFrames)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		frame := scanner.Text()
		if frame == "" {
			continue
		}
		if err := a.HandleFrame(frame, rw); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("serial toy: read: %w", err)
	}
	return nil
}

// HandleFrame applies one frame. Only write failures are returned.
func (a *Adapter) HandleFrame(frame string, w io.Writer) error {
	cmd, err := lovense.ParseCommand(frame)
	if err != nil {
		a.logger.Debug("serial toy: dropping frame", zap.String("frame", frame), zap.Error(err))
		metrics.AdapterMessage(ADAPTER_NAME, metrics.RESULT_IGNORED)
		return nil
	}
	metrics.AdapterMessage(ADAPTER_NAME, metrics.RESULT_ACCEPTED)

	switch cmd.Kind {
	case lovense.KindDeviceType:
		return a.reply(w, lovense.DeviceTypeResponse)
	case lovense.KindBattery:
		return a.reply(w, lovense.BatteryResponse)
	case lovense.KindVibrate:
		slider := domain.SliderOne
		if cmd.Motor == 2 {
			slider = domain.SliderTwo
		}
		intensity := lovense.Normalize(cmd.Level)
		a.logger.Debug("serial toy: vibrate", zap.Int("motor", cmd.Motor), zap.Int("level", cmd.Level), zap.Int("intensity", intensity))
		a.sink.UpdateSlider(slider, intensity, SOURCE)
	}
	return nil
}

func (a *Adapter) reply(w io.Writer, response string) error {
	if _, err := io.WriteString(w, response); err != nil {
		return fmt.Errorf("serial toy: write: %w", err)
	}
	return nil
}
