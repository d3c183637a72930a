package corvid

import (
	"strings"

	"github.com/casualjim/corvid/api"
)

// Selector chooses which reasoning framework should handle a message.
type Selector interface {
	Select(message string) api.Framework
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc func(message string) api.Framework

func (f SelectorFunc) Select(message string) api.Framework { return f(message) }

// selectorRule pairs a set of trigger keywords with the framework they select.
type selectorRule struct {
	keywords  []string
	framework api.Framework
}

// keywordSelector matches rules in order against the lowercased message.
// The first rule with a matching keyword wins; when nothing matches it
// falls through to ReAct.
type keywordSelector struct {
	rules []selectorRule
}

// DefaultSelector returns the keyword based selector used when no custom
// selector is configured. Messages that ask for step by step explanations
// go to chain of thought, messages that weigh alternatives go to tree of
// thoughts, and everything else goes to ReAct.
func DefaultSelector() Selector {
	return &keywordSelector{
		rules: []selectorRule{
			{keywords: []string{"step", "explain", "how to"}, framework: api.FrameworkChainOfThought},
			{keywords: []string{"explore", "consider", "compare"}, framework: api.FrameworkTreeOfThoughts},
		},
	}
}

func (s *keywordSelector) Select(message string) api.Framework {
	msg := strings.ToLower(message)
	for _, rule := range s.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.framework
			}
		}
	}
	return api.FrameworkReAct
}
