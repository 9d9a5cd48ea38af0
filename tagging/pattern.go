package tagging

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/plantfabric/assetkit/tree"
)

// Errors returned by batch construction and generation.
var (
	// ErrEmptyPattern is returned when the pattern is blank.
	ErrEmptyPattern = errors.New("tagging: empty pattern")

	// ErrExhausted is returned when no unique tag is found within the
	// attempt ceiling.
	ErrExhausted = errors.New("tagging: could not find a unique tag")
)

// DefaultMaxAttempts bounds the uniqueness retry loop when Options does
// not set its own ceiling.
const DefaultMaxAttempts = 10000

// Mode selects how the counter advances across a batch.
type Mode string

const (
	// ModeGlobal shares one counter across the entire batch, advanced
	// after every item.
	ModeGlobal Mode = "global"

	// ModePerClass keeps one counter per normalized class key, each
	// independently initialized and advanced.
	ModePerClass Mode = "perClass"
)

// IsValid returns true if the mode is one of the defined values.
func (m Mode) IsValid() bool {
	return m == ModeGlobal || m == ModePerClass
}

// Options configures a generation batch.
type Options struct {
	// Pattern is the tag template. Required.
	Pattern string

	// Start is the initial counter value. Defaults to 1.
	Start int

	// Step is the counter increment. Defaults to 1.
	Step int

	// Mode selects global or per-class counters. Defaults to ModeGlobal.
	Mode Mode

	// Unique enables collision checking against already-used tags.
	Unique bool

	// MaxAttempts bounds the uniqueness retry loop. Defaults to
	// DefaultMaxAttempts.
	MaxAttempts int
}

// Context carries the caller-supplied substitution strings. Values are
// whitespace-stripped before substitution.
type Context struct {
	Site     string
	Building string
	Storey   string
	Custom   string
}

// counterToken matches {N} and {N:width}.
var counterToken = regexp.MustCompile(`\{N(?::(\d+))?\}`)

// Batch generates a sequence of tags from one pattern. It tracks the
// counters and the used-tag set across Next calls; one Batch corresponds
// to one bulk-labeling operation in the host.
type Batch struct {
	opts     Options
	replacer func(class string) *strings.Replacer

	global   int
	perClass map[string]int
	used     map[string]struct{}
}

// NewBatch prepares a generation batch. The used list seeds the
// collision set when Options.Unique is enabled; UsedTags collects it
// from a snapshot. A blank pattern fails with ErrEmptyPattern.
func NewBatch(opts Options, tctx Context, used []string) (*Batch, error) {
	if strings.TrimSpace(opts.Pattern) == "" {
		return nil, ErrEmptyPattern
	}
	if opts.Start == 0 {
		opts.Start = 1
	}
	if opts.Step == 0 {
		opts.Step = 1
	}
	if opts.Mode == "" {
		opts.Mode = ModeGlobal
	}
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("tagging: unknown mode %q", opts.Mode)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	b := &Batch{
		opts:     opts,
		global:   opts.Start,
		perClass: make(map[string]int),
		used:     make(map[string]struct{}, len(used)),
	}
	for _, tag := range used {
		b.used[tag] = struct{}{}
	}

	site := strings.TrimSpace(tctx.Site)
	building := strings.TrimSpace(tctx.Building)
	storey := strings.TrimSpace(tctx.Storey)
	custom := strings.TrimSpace(tctx.Custom)
	b.replacer = func(class string) *strings.Replacer {
		return strings.NewReplacer(
			"{CLASS}", class,
			"{SITE}", site,
			"{BLDG}", building,
			"{STRY}", storey,
			"{CUSTOM}", custom,
		)
	}
	return b, nil
}

// Next renders the tag for the next item of the given classification.
// With uniqueness enabled it retries past collisions, advancing the
// relevant counter each time, and fails with ErrExhausted once the
// attempt ceiling is reached.
func (b *Batch) Next(classLabel string) (string, error) {
	class := ShortenClass(classLabel)
	perClass := b.opts.Mode == ModePerClass

	counter := b.global
	if perClass {
		if c, ok := b.perClass[class]; ok {
			counter = c
		} else {
			counter = b.opts.Start
		}
	}
	store := func(v int) {
		if perClass {
			b.perClass[class] = v
		} else {
			b.global = v
		}
	}

	for attempt := 0; attempt < b.opts.MaxAttempts; attempt++ {
		tag := b.render(class, counter)
		counter += b.opts.Step
		store(counter)

		if !b.opts.Unique {
			return tag, nil
		}
		if _, taken := b.used[tag]; !taken {
			b.used[tag] = struct{}{}
			return tag, nil
		}
	}

	return "", fmt.Errorf("%w: pattern %q after %d attempts", ErrExhausted, b.opts.Pattern, b.opts.MaxAttempts)
}

// render substitutes every token once. The width of the first {N...}
// occurrence governs the padding for the whole call.
func (b *Batch) render(class string, counter int) string {
	out := b.replacer(class).Replace(b.opts.Pattern)

	formatted := strconv.Itoa(counter)
	if m := counterToken.FindStringSubmatch(out); m != nil && m[1] != "" {
		if width, err := strconv.Atoi(m[1]); err == nil && width > 0 {
			formatted = fmt.Sprintf("%0*d", width, counter)
		}
	}
	return counterToken.ReplaceAllString(out, formatted)
}

// UsedTags collects every non-blank Object tag in the snapshot, sorted.
// It is the precomputed collision set for a uniqueness-checked batch.
func UsedTags(s tree.Snapshot) []string {
	var tags []string
	for _, n := range s.NodesOfKind(tree.KindObject) {
		if strings.TrimSpace(n.Tag) != "" {
			tags = append(tags, n.Tag)
		}
	}
	sort.Strings(tags)
	return tags
}
