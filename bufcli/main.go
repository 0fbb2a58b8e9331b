package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glyphbuf"
	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'glyphbuf.cli'
func tracer() tracing.Trace {
	return tracing.Select("glyphbuf.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.glyphbuf.cli":    "Info",
		"trace.glyphbuf.buffer": "Error",
		"trace.glyphbuf.stage":  "Error",
		"trace.glyphbuf.font":   "Error",
		"trace.glyphbuf":        "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (default: Go Regular)")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)            // will set the correct level later
	pterm.Info.Println("Welcome to the glyph buffer CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("buf > ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	intp := NewIntp()
	intp.repl = repl
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf("%v", err)
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
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
	intp.REPL() // go into interactive mode
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
	font *glyphbuf.ScalableFont
	repl *readline.Instance
	buf  *buffer.Buffer
}

// NewIntp creates an interpreter with an empty buffer and no font.
func NewIntp() *Intp {
	return &Intp{buf: buffer.New()}
}

func (intp *Intp) String() string {
	if intp == nil || intp.buf == nil {
		return "()"
	}
	b := intp.buf
	s := fmt.Sprintf("( %s len=%d %s", b.ContentType(), b.Len(), b.SegmentProperties())
	if b.OutputState() != buffer.NoOutput {
		s += fmt.Sprintf(" | %s idx=%d out=%d", b.OutputState(), b.Idx(), b.OutLen())
	}
	return s + " )"
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
	code   int
	arg    string
	format string
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
	ADD
	PROPS
	GUESS
	LEVEL
	CLEAR
	OUTPUT
	NEXT
	SKIP
	COPY
	REPLACE
	EMIT
	DELETE
	MERGE
	UNSAFE
	SWAP
	MOVE
	REVERSE
	NORMALIZE
	MASKS
	SHAPE
	FREEZE
	PRINT
)

var opMap = map[string]int{
	"quit":      QUIT,
	"help":      HELP,
	"add":       ADD,
	"props":     PROPS,
	"guess":     GUESS,
	"level":     LEVEL,
	"clear":     CLEAR,
	"output":    OUTPUT,
	"next":      NEXT,
	"skip":      SKIP,
	"copy":      COPY,
	"replace":   REPLACE,
	"emit":      EMIT,
	"delete":    DELETE,
	"merge":     MERGE,
	"unsafe":    UNSAFE,
	"swap":      SWAP,
	"move":      MOVE,
	"reverse":   REVERSE,
	"normalize": NORMALIZE,
	"masks":     MASKS,
	"shape":     SHAPE,
	"freeze":    FREEZE,
	"print":     PRINT,
}

var opNames = []string{
	"quit",
	"help",
	"add",
	"props",
	"guess",
	"level",
	"clear",
	"output",
	"next",
	"skip",
	"copy",
	"replace",
	"emit",
	"delete",
	"merge",
	"unsafe",
	"swap",
	"move",
	"reverse",
	"normalize",
	"masks",
	"shape",
	"freeze",
	"print",
}

// parseCommand splits a line into ops, separated by blanks. Every op has
// the form "name:arg:format", e.g. "add:hello", "merge:0:3" or "next:2".
func (intp *Intp) parseCommand(line string) (*Command, error) {
	command := &Command{}
	for i := range command.op {
		command.op[i].code = NOOP
	}
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many ops in one line: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":")
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		if code == QUIT {
			command.count = i + 1
			return command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		tracer().Debugf("parsed op %s %q %q", opNames[code], command.op[i].arg, command.op[i].format)
	}
	return command, nil
}

var commandFn map[int]func(*Intp, *Op) (error, bool)

func init() {
	commandFn = map[int]func(*Intp, *Op) (error, bool){
		QUIT:      quitOp,
		HELP:      helpOp,
		ADD:       addOp,
		PROPS:     propsOp,
		GUESS:     guessOp,
		LEVEL:     levelOp,
		CLEAR:     clearOp,
		OUTPUT:    outputOp,
		NEXT:      nextOp,
		SKIP:      skipOp,
		COPY:      copyOp,
		REPLACE:   replaceOp,
		EMIT:      emitOp,
		DELETE:    deleteOp,
		MERGE:     mergeOp,
		UNSAFE:    unsafeOp,
		SWAP:      swapOp,
		MOVE:      moveOp,
		REVERSE:   reverseOp,
		NORMALIZE: normalizeOp,
		MASKS:     masksOp,
		SHAPE:     shapeOp,
		FREEZE:    freezeOp,
		PRINT:     printOp,
	}
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op[:cmd.count] {
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = intp.guarded(f, &c)
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

// guarded runs an op, turning violated buffer preconditions into errors.
func (intp *Intp) guarded(f func(*Intp, *Op) (error, bool), op *Op) (err error, stop bool) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			var perr *buffer.PreconditionError
			if !ok || !errors.As(e, &perr) {
				panic(r)
			}
			err, stop = perr, false
		}
	}()
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string) (err error) {
	if fontname == "" {
		intp.font, err = glyphbuf.ParseOpenTypeFont(goregular.TTF)
	} else {
		intp.font, err = glyphbuf.LoadOpenTypeFont(fontname)
	}
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	tracer().Infof("loaded SFNT font = %s", intp.font.Fontname)
	pterm.Printf("font tables: %v\n", intp.font.TableTags())
	return nil
}

// ----------------------------------------------------------------------

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
