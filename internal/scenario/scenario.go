// Package scenario replays scripted navigation against a path. Scenarios
// are YAML documents; the navsim command and tests use them to exercise
// every path operation end to end.
package scenario

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/navpath/internal/config"
	"github.com/BrandonKowalski/navpath/internal/logging"
	"github.com/BrandonKowalski/navpath/pkg/navpath"
	"github.com/BrandonKowalski/navpath/pkg/navpath/navmetrics"
	"github.com/BrandonKowalski/navpath/pkg/navpath/presenter"
)

// Step operations.
const (
	OpPush      = "push"
	OpAnimate   = "animate"
	OpSheet     = "sheet"
	OpPop       = "pop"
	OpPopToRoot = "pop_to_root"
	OpDismiss   = "dismiss"
)

// Step is one scripted mutation.
type Step struct {
	Op         string `yaml:"op"`
	Content    string `yaml:"content,omitempty"`
	ID         string `yaml:"id,omitempty"`
	Transition string `yaml:"transition,omitempty"` // Animate only, defaults to slide
	Edge       string `yaml:"edge,omitempty"`       // leading, trailing, top, bottom
	Animation  string `yaml:"animation,omitempty"`  // Config preset name, empty for the default
	Expect     string `yaml:"expect,omitempty"`     // ok, invalid_state, empty_stack
}

// Scenario is a named list of steps played on one path.
type Scenario struct {
	Name  string `yaml:"name"`
	Root  string `yaml:"root,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Result records the outcome of one step.
type Result struct {
	Index     int
	Step      Step
	Err       error
	Frame     presenter.Frame
	Dismissed []string // Content of sheets whose handler ran during the step
}

// Load reads a scenario file.
func Load(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a scenario.
func Decode(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate checks every step.
func (s Scenario) Validate() error {
	for i, st := range s.Steps {
		switch st.Op {
		case OpPush, OpAnimate, OpSheet, OpPop, OpPopToRoot, OpDismiss:
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
		switch st.Expect {
		case "", "ok", "invalid_state", "empty_stack":
		default:
			return fmt.Errorf("step %d: unknown expectation %q", i+1, st.Expect)
		}
		if _, err := parseEdge(st.Edge); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Runner plays scenarios.
type Runner struct {
	cfg       config.Config
	logger    *slog.Logger
	collector *navmetrics.Collector
}

// NewRunner creates a runner. logger and collector may be nil.
func NewRunner(cfg config.Config, logger *slog.Logger, collector *navmetrics.Collector) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Runner{cfg: cfg, logger: logger, collector: collector}
}

// Run plays every step on a fresh path and returns one result per step. It
// fails on the first step whose outcome differs from its expectation. A
// failure to release the path afterwards is reported when every step passed.
func (r *Runner) Run(s Scenario) (results []Result, err error) {
	opts := r.cfg.PathOptions(r.logger)
	if s.Root != "" {
		opts = append(opts, navpath.WithRoot(s.Root))
	}
	if r.collector != nil {
		opts = append(opts, navpath.WithRejectHook(r.collector.Reject))
	}

	pres := presenter.New(presenter.WithPathOptions(opts...), presenter.WithLogger(r.logger))
	path := pres.Path()
	if r.collector != nil {
		defer path.Subscribe(r.collector)()
	}
	// Released while the collector is still subscribed.
	defer func() {
		if cerr := pres.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close presenter: %w", cerr)
		}
	}()

	var dismissed []string
	results = make([]Result, 0, len(s.Steps))
	for i, st := range s.Steps {
		dismissed = dismissed[:0]
		stepErr := r.apply(path, st, func(content string) {
			dismissed = append(dismissed, content)
		})

		res := Result{
			Index:     i + 1,
			Step:      st,
			Err:       stepErr,
			Frame:     pres.Frame(),
			Dismissed: append([]string(nil), dismissed...),
		}
		results = append(results, res)
		r.logger.Debug("scenario step", "scenario", s.Name, "step", res.Index, "op", st.Op, "depth", path.Len(), "error", stepErr)

		if want, got := expectation(st.Expect), outcome(stepErr); want != got {
			return results, fmt.Errorf("step %d (%s): expected %s, got %s", res.Index, st.Op, want, got)
		}
	}
	return results, nil
}

func (r *Runner) apply(path *navpath.Path, st Step, onDismiss func(string)) error {
	var opts []navpath.EntryOption
	if st.ID != "" {
		opts = append(opts, navpath.WithID(st.ID))
	}

	switch st.Op {
	case OpPush:
		return path.Push(navpath.Plain(st.Content, opts...))
	case OpAnimate:
		anim, ok := r.cfg.Animation(st.Animation)
		if !ok {
			return fmt.Errorf("unknown animation %q", st.Animation)
		}
		edge, _ := parseEdge(st.Edge)
		name := st.Transition
		if name == "" {
			name = navpath.TransitionSlide
		}
		return path.Push(navpath.Animated(st.Content, navpath.Transition{Name: name, Edge: edge}, anim, opts...))
	case OpSheet:
		content := st.Content
		return path.PresentSheet(navpath.Sheet(content, func() { onDismiss(content) }, opts...))
	case OpPop:
		_, _, err := path.Pop()
		return err
	case OpPopToRoot:
		_, err := path.PopToRoot()
		return err
	case OpDismiss:
		_, _, err := path.DismissSheet()
		return err
	}
	return fmt.Errorf("unknown op %q", st.Op)
}

func expectation(raw string) string {
	if raw == "" {
		return "ok"
	}
	return raw
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if _, isMutation := navpath.OpOf(err); !isMutation {
		return "error: " + err.Error()
	}
	return navmetrics.Reason(err)
}

func parseEdge(raw string) (navpath.Edge, error) {
	switch strings.ToLower(raw) {
	case "", "none":
		return navpath.EdgeNone, nil
	case "leading":
		return navpath.EdgeLeading, nil
	case "trailing":
		return navpath.EdgeTrailing, nil
	case "top":
		return navpath.EdgeTop, nil
	case "bottom":
		return navpath.EdgeBottom, nil
	default:
		return navpath.EdgeNone, fmt.Errorf("unknown edge %q", raw)
	}
}

// Format renders a result as one line.
func Format(res Result) string {
	var b strings.Builder
	depth := len(res.Frame.Stack)
	if res.Frame.Overlay != nil {
		depth++
	}
	fmt.Fprintf(&b, "#%d %-11s depth=%d stack=[", res.Index, res.Step.Op, depth)
	for i, l := range res.Frame.Stack {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%v@%d", l.Content, l.PaintOrder)
	}
	b.WriteString("] overlay=")
	if res.Frame.Overlay != nil {
		fmt.Fprintf(&b, "%v@%d", res.Frame.Overlay.Content, res.Frame.Overlay.PaintOrder)
	} else {
		b.WriteString("-")
	}
	b.WriteString(" anim=")
	if res.Frame.Animation != nil {
		fmt.Fprintf(&b, "%s/%s", res.Frame.Animation.Curve, res.Frame.Animation.Duration)
	} else {
		b.WriteString("-")
	}
	if len(res.Dismissed) > 0 {
		fmt.Fprintf(&b, " dismissed=%s", strings.Join(res.Dismissed, ","))
	}
	if res.Err != nil {
		fmt.Fprintf(&b, " err=%q", res.Err.Error())
	}
	return b.String()
}
