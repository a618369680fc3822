package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	"github.com/obskit/zaberselect/selector"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "selectorsrv.yml"
	k              = koanf.New(".")
)

func setupconfig() {
	k.Load(structs.Provider(Config{
		Addr:       ":8000",
		Endpoint:   "/",
		Port:       "/dev/ttyUSB0",
		Scale:      12800,
		Speed:      10,
		LengthUnit: "deg",
		SpeedUnit:  "deg/s",
		Led:        true,
		Modes: []selector.Mode{
			{Name: "spectroscopy", Position: 0},
			{Name: "photometry", Position: 90},
		}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `selectorsrv drives a Zaber stage as a mode selector and exposes an HTTP
interface to it.  This enables a server-client architecture, and the clients
can leverage the excellent HTTP libraries for any programming language.

Usage:
	selectorsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `selectorsrv is amenable to configuration via its .yaml file.  For a primer
on YAML, see https://yaml.org/start.html

The mode table maps symbolic names to stage positions in your chosen length
unit.  GET /modes lists them, GET /mode reports the current one, and
POST /mode with {"str": "<name>"} slews the stage there.  Raw motion is
available under /axis/1/ and can be bounded with the Limits section; the
Endpoint key prefixes all of these routes, and GET /endpoints lists them.

Profile selects the velocity shaping for mode changes:
- "" (empty)  one move at the configured speed
- "sine"      half-sine ramp, zero speed at both ends
- "gauss"     gaussian bell
- "triangle"  linear ramp up then down

Set Mock: true to run against an in-memory stage with no hardware attached.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("selectorsrv version %v\n", Version)
}

func run() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	sel, err := BuildSelector(c)
	if err != nil {
		log.Fatal(err)
	}
	if err := sel.EnableLed(c.Led); err != nil {
		// the LED is cosmetic, do not refuse to serve over it
		log.Println("unable to set device LED:", err)
	}
	mux := BuildMux(c, sel)
	log.Println("now listening for requests at ", c.Addr)
	log.Fatal(http.ListenAndServe(c.Addr, mux))
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
