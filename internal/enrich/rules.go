package enrich

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// TagRule maps a lowercase keyword to the tag emitted when the keyword
// appears anywhere in a record's text. Rule order is significant: tags
// come out in table order, not input order.
type TagRule struct {
	Keyword string `yaml:"keyword"`
	Tag     string `yaml:"tag"`
}

// DefaultRules is the built-in keyword table.
func DefaultRules() []TagRule {
	return []TagRule{
		{Keyword: "coin", Tag: "coin operated"},
		{Keyword: "24 hour", Tag: "24-hour"},
		{Keyword: "24/7", Tag: "24-hour"},
		{Keyword: "drop", Tag: "drop-off service"},
		{Keyword: "fold", Tag: "wash and fold"},
		{Keyword: "dry clean", Tag: "dry cleaning"},
		{Keyword: "pickup", Tag: "pickup service"},
		{Keyword: "pick up", Tag: "pickup service"},
		{Keyword: "delivery", Tag: "delivery service"},
		{Keyword: "wifi", Tag: "free wifi"},
		{Keyword: "wi-fi", Tag: "free wifi"},
		{Keyword: "self", Tag: "self service"},
		{Keyword: "card", Tag: "card payment"},
		{Keyword: "attendant", Tag: "attended"},
		{Keyword: "eco", Tag: "eco-friendly"},
		{Keyword: "green", Tag: "eco-friendly"},
		{Keyword: "large", Tag: "large capacity machines"},
		{Keyword: "commercial", Tag: "commercial laundry"},
	}
}

// rulesFile is the on-disk shape of a tag rules override.
type rulesFile struct {
	ExtendDefaults bool      `yaml:"extend_defaults"`
	Rules          []TagRule `yaml:"rules"`
}

// LoadRules reads a YAML rule table. When extend_defaults is set the
// file's rules are appended after the built-in table; otherwise they
// replace it.
func LoadRules(path string) ([]TagRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: read tag rules %s", path)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, eris.Wrap(err, "enrich: parse tag rules")
	}
	if len(rf.Rules) == 0 {
		return nil, eris.Errorf("enrich: tag rules %s defines no rules", path)
	}

	if rf.ExtendDefaults {
		return append(DefaultRules(), rf.Rules...), nil
	}
	return rf.Rules, nil
}
