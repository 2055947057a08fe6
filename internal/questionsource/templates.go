package questionsource

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinTemplates []byte

const (
	defaultSet       = "default"
	topicPlaceholder = "{topic}"
)

type templateFile struct {
	Sets map[string][]questionTemplate `yaml:"sets"`
}

type questionTemplate struct {
	Text          string   `yaml:"text"`
	Options       []string `yaml:"options"`
	CorrectAnswer int      `yaml:"correctAnswer"`
	Difficulty    string   `yaml:"difficulty"`
}

// templateSet is one named set split into bands.
type templateSet [len(assessment.Difficulties)][]questionTemplate

// Shuffler reorders a pool in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// TemplateSource builds pools from fixed templates. It never calls out and
// never fails for a valid request.
type TemplateSource struct {
	sets    map[string]templateSet
	shuffle Shuffler
}

// TemplateOption configures a TemplateSource.
type TemplateOption func(*TemplateSource)

// WithShuffle shuffles every pool with s. Without it pools are returned in
// band order.
func WithShuffle(s Shuffler) TemplateOption {
	return func(t *TemplateSource) { t.shuffle = s }
}

// NewTemplateSource loads the built-in templates.
func NewTemplateSource(opts ...TemplateOption) (*TemplateSource, error) {
	return ParseTemplates(builtinTemplates, opts...)
}

// MustTemplateSource is NewTemplateSource for the embedded set, which is
// known to be valid.
func MustTemplateSource(opts ...TemplateOption) *TemplateSource {
	t, err := NewTemplateSource(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTemplates loads templates from YAML. A "default" set is required and
// every set needs at least one template per band.
func ParseTemplates(data []byte, opts ...TemplateOption) (*TemplateSource, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if _, ok := file.Sets[defaultSet]; !ok {
		return nil, fmt.Errorf("parse templates: missing %q set", defaultSet)
	}

	t := &TemplateSource{sets: make(map[string]templateSet, len(file.Sets))}
	for name, list := range file.Sets {
		var set templateSet
		for i, qt := range list {
			d, err := assessment.ParseDifficulty(qt.Difficulty)
			if err != nil {
				return nil, fmt.Errorf("template %s[%d]: %w", name, i, err)
			}
			set[d] = append(set[d], qt)
		}
		for _, d := range assessment.Difficulties {
			if len(set[d]) == 0 {
				return nil, fmt.Errorf("template set %s: no %s questions", name, d)
			}
		}
		t.sets[name] = set
	}

	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// lookup finds the set for a topic: exact name, then case-insensitive,
// then the default set.
func (t *TemplateSource) lookup(topic string) templateSet {
	if set, ok := t.sets[topic]; ok {
		return set
	}
	for name, set := range t.sets {
		if name != defaultSet && strings.EqualFold(name, topic) {
			return set
		}
	}
	return t.sets[defaultSet]
}

// Questions returns a pool split 40/40/20 across bands, cycling through
// each band's templates when the count exceeds them.
func (t *TemplateSource) Questions(_ context.Context, req Request) ([]assessment.Question, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	set := t.lookup(req.Topic)
	split := Split(req.Count)

	pool := make([]assessment.Question, 0, req.Count)
	for _, d := range assessment.Difficulties {
		band := set[d]
		for i := range split[d] {
			qt := band[i%len(band)]
			pool = append(pool, qt.build(req, d))
		}
	}

	if t.shuffle != nil {
		t.shuffle.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	return pool, nil
}

func (qt questionTemplate) build(req Request, d assessment.Difficulty) assessment.Question {
	fill := func(s string) string { return strings.ReplaceAll(s, topicPlaceholder, req.Topic) }

	options := make([]string, len(qt.Options))
	for i, o := range qt.Options {
		options[i] = fill(o)
	}
	return assessment.Question{
		ID:            uuid.NewString(),
		Text:          fill(qt.Text),
		Options:       options,
		CorrectAnswer: qt.CorrectAnswer,
		Difficulty:    d,
		Topic:         req.Topic,
		Subtopic:      req.Subtopic,
	}
}
