// zaberctl is a bench tool for exercising a mode selector stage without
// the HTTP server in the loop.  It reads the same yaml file as selectorsrv
// and talks to the hardware (or the mock) directly.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/theckman/yacspin"

	"github.com/obskit/zaberselect/selector"
	"github.com/obskit/zaberselect/util"
	"github.com/obskit/zaberselect/zaber"
)

// ConfigFileName is shared with selectorsrv so one file describes the bench
var ConfigFileName = "selectorsrv.yml"

var k = koanf.New(".")

// Config mirrors the selectorsrv config; the server-only fields are ignored
type Config struct {
	Addr       string                  `yaml:"Addr" koanf:"Addr"`
	Port       string                  `yaml:"Port" koanf:"Port"`
	Mock       bool                    `yaml:"Mock" koanf:"Mock"`
	Scale      float64                 `yaml:"Scale" koanf:"Scale"`
	Basis      float64                 `yaml:"Basis" koanf:"Basis"`
	Speed      float64                 `yaml:"Speed" koanf:"Speed"`
	LengthUnit string                  `yaml:"LengthUnit" koanf:"LengthUnit"`
	SpeedUnit  string                  `yaml:"SpeedUnit" koanf:"SpeedUnit"`
	Profile    string                  `yaml:"Profile" koanf:"Profile"`
	Steps      int                     `yaml:"Steps" koanf:"Steps"`
	Led        bool                    `yaml:"Led" koanf:"Led"`
	Limits     map[string]util.Limiter `yaml:"Limits" koanf:"Limits"`
	Modes      []selector.Mode         `yaml:"Modes" koanf:"Modes"`
}

func setupconfig() Config {
	k.Load(structs.Provider(Config{
		Port:       "/dev/ttyUSB0",
		Scale:      12800,
		Speed:      10,
		LengthUnit: "deg",
		SpeedUnit:  "deg/s",
	}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") {
			log.Fatalf("error loading config: %v", err)
		}
	}
	c := Config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	return c
}

func buildSelector(c Config) *selector.ModeSelector {
	lengthUnit, err := zaber.ParseUnits(c.LengthUnit)
	if err != nil {
		log.Fatal(err)
	}
	speedUnit, err := zaber.ParseUnits(c.SpeedUnit)
	if err != nil {
		log.Fatal(err)
	}
	profile, err := selector.ParseProfile(c.Profile)
	if err != nil {
		log.Fatal(err)
	}
	var open zaber.Opener
	if c.Mock {
		open = zaber.NewSim().Opener()
	} else {
		open = zaber.ASCIIOpener(c.Scale)
	}
	return &selector.ModeSelector{
		Motor: selector.Motor{
			Port:       c.Port,
			Basis:      c.Basis,
			Speed:      c.Speed,
			LengthUnit: lengthUnit,
			SpeedUnit:  speedUnit,
			Open:       open,
		},
		Modes:   c.Modes,
		Profile: profile,
		Steps:   c.Steps,
	}
}

func spinner(msg string) *yacspin.Spinner {
	cfg := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " " + msg,
		StopCharacter:     "ok",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "fail",
		StopFailColors:    []string{"fgRed"},
	}
	s, err := yacspin.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	return s
}

// spin runs f behind a spinner, with the ok/fail glyph tracking the error
func spin(msg string, f func() error) {
	s := spinner(msg)
	s.Start()
	err := f()
	if err != nil {
		s.StopFail()
		log.Fatal(err)
	}
	s.Stop()
}

func usage() {
	str := `zaberctl pokes at a mode selector stage from the command line.

Usage:
	zaberctl <command> [args]

Commands:
	modes              list the configured mode names
	get                print the current mode
	set <name>         slew to a mode
	pos                print the stage position
	move <amount>      move relative by amount, in the configured length unit
	home               drive the stage to its basis position
	led on|off         switch the device status LED

The configuration is read from ` + ConfigFileName + ` in the working directory.`
	fmt.Println(str)
}

func main() {
	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}
	c := setupconfig()
	sel := buildSelector(c)
	switch strings.ToLower(args[1]) {
	case "modes":
		for _, name := range sel.ListModes() {
			fmt.Println(name)
		}
	case "get":
		mode, err := sel.GetMode()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(mode)
	case "set":
		if len(args) < 3 {
			log.Fatal("set requires a mode name")
		}
		spin("slewing to "+args[2], func() error {
			return sel.SetMode(args[2])
		})
	case "pos":
		pos, err := sel.CheckPosition()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%g %s\n", pos, sel.LengthUnit)
	case "move":
		if len(args) < 3 {
			log.Fatal("move requires an amount")
		}
		amount, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			log.Fatal(err)
		}
		spin(fmt.Sprintf("moving %g %s", amount, sel.LengthUnit), func() error {
			return sel.MoveBy(amount)
		})
	case "home":
		spin("homing", func() error {
			return sel.ToBasis()
		})
	case "led":
		if len(args) < 3 {
			log.Fatal("led requires on or off")
		}
		on := strings.ToLower(args[2]) == "on"
		if err := sel.EnableLed(on); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
	}
}
