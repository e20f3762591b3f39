package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr          = ":8080"
	defaultLedCount      = 16
	defaultBrightness    = 64
	defaultSpiClockHz    = 2400000
	defaultPreambleBytes = 3
	defaultSweepDelayMs  = 30
)

// The tunables where zero is a legal setting (a strip chipset may need no
// preamble, a sweep can run undelayed, the default color can be off) are
// pointers so an explicit zero in the yaml is not mistaken for absence.
type Config struct {
	Addr string `yaml:"addr"`
	Leds struct {
		Count             int    `yaml:"count"`
		DefaultBrightness *uint8 `yaml:"defaultBrightness"`
	} `yaml:"leds"`
	Spi struct {
		Port          string `yaml:"port"`
		ClockHz       int64  `yaml:"clockHz"`
		PreambleBytes *int   `yaml:"preambleBytes"`
	} `yaml:"spi"`
	Sweep struct {
		StepDelayMs *int `yaml:"stepDelayMs"`
	} `yaml:"sweep"`
}

func (c Config) sweepStepDelay() time.Duration {
	return time.Duration(*c.Sweep.StepDelayMs) * time.Millisecond
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, err
	}

	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.Leds.Count == 0 {
		c.Leds.Count = defaultLedCount
	}
	if c.Leds.Count < 0 {
		return nil, fmt.Errorf("LED count must be positive")
	}
	if c.Leds.DefaultBrightness == nil {
		brightness := uint8(defaultBrightness)
		c.Leds.DefaultBrightness = &brightness
	}
	if c.Spi.ClockHz == 0 {
		c.Spi.ClockHz = defaultSpiClockHz
	}
	if c.Spi.ClockHz < 0 {
		return nil, fmt.Errorf("SPI clock rate must be positive")
	}
	if c.Spi.PreambleBytes == nil {
		preamble := defaultPreambleBytes
		c.Spi.PreambleBytes = &preamble
	}
	if *c.Spi.PreambleBytes < 0 {
		return nil, fmt.Errorf("preamble length cannot be negative")
	}
	if c.Sweep.StepDelayMs == nil {
		delay := defaultSweepDelayMs
		c.Sweep.StepDelayMs = &delay
	}
	if *c.Sweep.StepDelayMs < 0 {
		return nil, fmt.Errorf("sweep step delay cannot be negative")
	}

	return c, nil
}

func readConfig(file string) (*Config, error) {
	content, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		log.Infof("No config file at %v, using defaults", file)
		return parseConfig(nil)
	}
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}
