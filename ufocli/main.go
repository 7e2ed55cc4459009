package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/ufo"
	"github.com/npillmayer/ufo/glyphset"
	"github.com/pterm/pterm"
)

// tracer traces with key 'font.ufo'
func tracer() tracing.Trace {
	return tracing.Select("font.ufo")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.font.ufo":  "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "UFO directory or .ufoz archive to open")
	strict := flag.Bool("strict", false, "fail on unreadable optional files")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)
	pterm.Info.Println("Welcome to UFO CLI")
	if *strict {
		conf[ufo.ConfigStrict] = "true"
	}
	//
	// set up REPL
	repl, err := readline.New("ufo > ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	if err := intp.loadFont(*fontname, ufo.OptionsFromConfig(conf)...); err != nil {
		tracer().Errorf("%v", err)
		os.Exit(4)
	}
	defer intp.font.Close()
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font  *ufo.Reader
	repl  *readline.Instance
	layer string // current layer, empty for the default layer
}

func (intp *Intp) String() string {
	if intp == nil || intp.font == nil {
		return "()"
	}
	layer := intp.layer
	if layer == "" {
		layer = ufo.DefaultLayerName
	}
	return fmt.Sprintf("( font=%s layer=%s )", intp.font.Path(), layer)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf("%v", err)
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf("%v", err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	INFO
	LAYERS
	LAYER
	GLYPHS
	GLYPH
	GROUPS
	KERNING
	LIB
)

var opMap = map[string]int{
	"quit":    QUIT,
	"help":    HELP,
	"info":    INFO,
	"layers":  LAYERS,
	"layer":   LAYER,
	"glyphs":  GLYPHS,
	"glyph":   GLYPH,
	"groups":  GROUPS,
	"kerning": KERNING,
	"lib":     LIB,
}

var opNames = []string{
	"quit",
	"help",
	"info",
	"layers",
	"layer",
	"glyphs",
	"glyph",
	"groups",
	"kerning",
	"lib",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
	}
}

// parseCommand splits a line into steps, e.g. "layer:public.background glyphs".
// Unknown commands show help. A step argument follows the first colon.
func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		name, arg, _ := strings.Cut(step, ":")
		code, ok := opMap[strings.ToLower(name)]
		if !ok {
			code = HELP
			arg = ""
		}
		command.op[i].code = code
		if code == QUIT {
			return &command, nil
		}
		command.op[i].arg = arg
		if arg == "" {
			tracer().Debugf("%s", opNames[code])
		} else {
			tracer().Debugf("%s: looking for '%s'", opNames[code], arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:    quitOp,
	HELP:    helpOp,
	INFO:    infoOp,
	LAYERS:  layersOp,
	LAYER:   layerOp,
	GLYPHS:  glyphsOp,
	GLYPH:   glyphOp,
	GROUPS:  groupsOp,
	KERNING: kerningOp,
	LIB:     libOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

var errNoFont = errors.New("no font given, use -font <path>")

func (intp *Intp) loadFont(path string, opts ...ufo.Option) (err error) {
	if path == "" {
		return errNoFont
	}
	if intp.font, err = ufo.Open(path, opts...); err != nil {
		return err
	}
	version, err := intp.font.FormatVersion()
	if err != nil {
		intp.font.Close()
		return err
	}
	tracer().Infof("opened UFO %d font source %s", version, path)
	names, err := intp.font.LayerNames()
	if err == nil {
		pterm.Printf("layers: %v\n", names)
	}
	return err
}

// glyphSet returns the glyph set of the current layer.
func (intp *Intp) glyphSet() (*glyphset.GlyphSet, error) {
	if intp.layer == "" {
		return intp.font.GlyphSet()
	}
	gs, err := intp.font.LayerGlyphSet(intp.layer)
	if err == nil && gs == nil {
		err = fmt.Errorf("no layer %q", intp.layer)
	}
	return gs, err
}
