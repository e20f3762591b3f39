package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/callebjorkell/led-server/internal/server"
	"github.com/callebjorkell/led-server/internal/spibus"
	"github.com/callebjorkell/led-server/internal/strip"
	"github.com/callebjorkell/led-server/internal/ws2812"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
)

type colorFormatter struct {
	log.TextFormatter
}

func (f *colorFormatter) Format(entry *log.Entry) ([]byte, error) {
	var levelColor int
	switch entry.Level {
	case log.DebugLevel, log.TraceLevel:
		levelColor = 90 // dark grey
	case log.WarnLevel:
		levelColor = 33 // yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = 91 // bright red
	default:
		levelColor = 39 // default
	}
	return []byte(fmt.Sprintf("\x1b[%dm%s\x1b[0m\n", levelColor, entry.Message)), nil
}

func main() {
	log.SetFormatter(&colorFormatter{})

	if err := RootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func startServer(configFile string) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	conf, err := readConfig(configFile)
	if err != nil {
		log.Fatal("Unable to read configuration: ", err)
	}

	// Without the bus there is nothing to control, so failing to open it
	// ends the process.
	bus, err := spibus.Open(conf.Spi.Port, physic.Frequency(conf.Spi.ClockHz)*physic.Hertz)
	if err != nil {
		log.Fatal("Unable to open the SPI bus: ", err)
	}

	enc := ws2812.NewEncoder(*conf.Spi.PreambleBytes)
	leds := strip.New(bus, enc, conf.Leds.Count)

	if err := leds.Sweep(*conf.Leds.DefaultBrightness, conf.sweepStepDelay()); err != nil {
		log.Warn("Startup sweep failed: ", err)
	}

	// Paint the default color so the committed state matches the strip.
	b := int(*conf.Leds.DefaultBrightness)
	if err := leds.SetAll(b, b, b); err != nil {
		log.Warn("Unable to initialize the LEDs: ", err)
	}
	log.Infof("Initialized %d LEDs", leds.Len())

	srv := server.New(conf.Addr, leds)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Error("Control server died: ", err)
			signalChan <- syscall.SIGTERM
		}
	}()

	<-signalChan

	log.Info("Shutting down...")
	if err := srv.Close(); err != nil {
		log.Warn("Unable to close the control server: ", err)
	}
	if err := bus.Close(); err != nil {
		log.Warn("Unable to close the SPI bus: ", err)
	}
	log.Info("Done...")
}
