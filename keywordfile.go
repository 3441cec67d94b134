package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/kumihan/kumihan-go/kumihan"
)

// keywordFile mirrors the YAML layout of a keyword override file:
//
//	keywords:
//	  - name: 注意
//	    tag: div
//	    classes: [warn]
//	    rank: 25
type keywordFile struct {
	Keywords []keywordEntry `yaml:"keywords"`
}

type keywordEntry struct {
	Name         string   `yaml:"name"`
	Tag          string   `yaml:"tag"`
	Classes      []string `yaml:"classes"`
	Rank         int      `yaml:"rank"`
	ColorCapable bool     `yaml:"color_capable"`
	Summary      string   `yaml:"summary"`
	HeadingLevel int      `yaml:"heading_level"`
}

// LoadKeywordFile reads keyword table entries from a YAML file. This
// is the configuration collaborator of the core: the parser itself
// never touches disk, it only consumes the resulting table.
func LoadKeywordFile(fileName string) ([]kumihan.KeywordDescriptor, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	var file keywordFile
	if err := yaml.Unmarshal(src, &file); err != nil {
		return nil, fmt.Errorf("malformed keyword file: %w", err)
	}

	descriptors := make([]kumihan.KeywordDescriptor, 0, len(file.Keywords))
	for i, e := range file.Keywords {
		if len(e.Name) == 0 {
			return nil, fmt.Errorf("keyword entry %d has no name", i)
		}
		if len(e.Tag) == 0 {
			return nil, fmt.Errorf("keyword %q has no tag", e.Name)
		}
		d := kumihan.KeywordDescriptor{
			Name:         e.Name,
			Tag:          e.Tag,
			Classes:      e.Classes,
			Rank:         e.Rank,
			ColorCapable: e.ColorCapable,
			Summary:      e.Summary,
			HeadingLevel: e.HeadingLevel,
		}
		if e.HeadingLevel > 0 {
			d.Slot = kumihan.SlotHeading
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
