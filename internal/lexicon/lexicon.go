// Package lexicon holds the fixed pattern tables the detectors match against.
// The tables are loaded once at startup and injected, so tests can swap in
// smaller sets. All cues are stored lowercase; matching is case-insensitive
// substring search. The deployed locale is Brazilian Portuguese, with English
// equivalents kept alongside for mixed-language classrooms.
package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic maps a topic tag to the cues that activate it. A slice (not a map)
// keeps classification order deterministic.
type Topic struct {
	Tag  string   `yaml:"tag"`
	Cues []string `yaml:"cues"`
}

// Lexicon is the full set of pattern tables. Behavior families double as the
// "pattern knowledge" reused by the context detector and the legal checker;
// those components deliberately re-scan the text instead of consuming the
// behavior detector's report.
type Lexicon struct {
	Sarcasm       []string `yaml:"sarcasm"`
	Disengagement []string `yaml:"disengagement"`
	PublicShame   []string `yaml:"public_shame"`
	Exclusion     []string `yaml:"exclusion"`
	Aggression    []string `yaml:"aggression"`

	Topics []Topic `yaml:"topics"`

	Prevention     []string `yaml:"prevention"`
	Responsibility []string `yaml:"responsibility"`
	Reporting      []string `yaml:"reporting"`
	InclusionGaps  []string `yaml:"inclusion_gaps"`
}

// TopicBullying is the tag that drives the teaching_about_bullying flag.
const TopicBullying = "bullying"

// Default returns the built-in production tables.
func Default() *Lexicon {
	return &Lexicon{
		Sarcasm: []string{
			"only you",
			"só você",
			"you always do this",
			"você sempre faz isso",
			"of course you did",
			"claro que sim, né",
			"que surpresa",
			"what a surprise",
			"oh, great job",
		},
		Disengagement: []string{
			"is asleep",
			"fell asleep",
			"está dormindo",
			"dormindo na aula",
			"didn't show up",
			"não apareceu",
			"stopped participating",
			"parou de participar",
			"staring at the wall",
		},
		PublicShame: []string{
			"everyone, look at",
			"look at what",
			"in front of the class",
			"na frente da turma",
			"todos olhem para",
			"class, see how",
			"turma, vejam como",
			"let the whole class see",
		},
		Exclusion: []string{
			"nobody wants",
			"no one wants",
			"ninguém quer",
			"nobody likes",
			"ninguém gosta",
			"stay out of the group",
			"fica fora do grupo",
			"não pode participar",
			"sit alone",
			"sozinho no canto",
		},
		Aggression: []string{
			"shut up",
			"cala a boca",
			"you are useless",
			"você é um inútil",
			"idiot",
			"idiota",
			"burro",
			"get out of my class",
			"saia da minha sala",
			"i've had enough of you",
		},
		Topics: []Topic{
			{
				Tag: TopicBullying,
				Cues: []string{
					"bullying",
					"cyberbullying",
					"assédio",
					"harassment",
					"intimidação sistemática",
				},
			},
			{
				Tag: "digital_safety",
				Cues: []string{
					"online safety",
					"segurança digital",
					"internet segura",
					"privacy",
					"privacidade",
					"dados pessoais",
				},
			},
		},
		Prevention: []string{
			"prevention",
			"prevenção",
			"prevenir",
			"how to protect",
			"como se proteger",
		},
		Responsibility: []string{
			"responsibility",
			"responsabilidade",
			"consequences",
			"consequências",
			"accountable",
		},
		Reporting: []string{
			"report it",
			"report to",
			"denuncie",
			"denunciar",
			"canal de denúncia",
			"tell a teacher",
			"tell an adult",
			"procure um adulto",
		},
		InclusionGaps: []string{
			"can't find",
			"couldn't find",
			"não encontro",
			"is asleep",
			"fell asleep",
			"está dormindo",
		},
	}
}

// Load reads a lexicon override from a YAML file. Empty path falls back to
// the built-in tables.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon file: %w", err)
	}
	defer file.Close()

	lex := &Lexicon{}
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(lex); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon file: %w", err)
	}

	return lex, nil
}

// Match reports whether any cue occurs in the text. The text must already be
// lowercased; cues are stored lowercase.
func Match(lowerText string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(lowerText, cue) {
			return true
		}
	}
	return false
}

// Sentences splits a transcript into trimmed, non-empty sentences. Evidence
// snippets are whole sentences, so the split has to be stable across runs.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?', '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return sentences
}
