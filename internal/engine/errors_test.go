package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	ure := &UndeclaredReferenceError{Line: 4, Kind: "category", Name: "nasal"}
	snf := &StageNotFoundError{Stage: "Old"}
	rce := &RuleConfigurationError{Message: "insertion needs an anchoring environment"}

	assert.True(t, IsUndeclaredReference(ure))
	assert.True(t, IsStageNotFound(snf))
	assert.True(t, IsRuleConfiguration(rce))
	assert.False(t, IsRuleConfiguration(ure))

	wrapped := fmt.Errorf("strict: %w", rce)
	assert.True(t, IsRuleConfiguration(wrapped))
	assert.Equal(t, ErrCodeRuleConfiguration, Code(wrapped))
	assert.Equal(t, ErrorCode(""), Code(errors.New("other")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `UNDECLARED_REFERENCE: line 4: undeclared category "nasal"`,
		(&UndeclaredReferenceError{Line: 4, Kind: "category", Name: "nasal"}).Error())
	assert.Equal(t, `UNDECLARED_REFERENCE: line 7: undeclared category "x" in rule "a > [x]"`,
		(&UndeclaredReferenceError{Line: 7, Kind: "category", Name: "x", Rule: "a > [x]"}).Error())
	assert.Equal(t, `STAGE_NOT_FOUND: stage "Old" not found, interpreted the whole script`,
		(&StageNotFoundError{Stage: "Old"}).Error())
	assert.Equal(t, `RULE_CONFIGURATION: line 2: rule "> e": insertion needs an anchoring environment`,
		(&RuleConfigurationError{Line: 2, Rule: "> e", Message: "insertion needs an anchoring environment"}).Error())
}

func TestAttachRule(t *testing.T) {
	err := attachRule(&RuleConfigurationError{Message: "m"}, 9, "a > b")
	var rce *RuleConfigurationError
	assert.True(t, errors.As(err, &rce))
	assert.Equal(t, 9, rce.Line)
	assert.Equal(t, "a > b", rce.Rule)

	other := attachRule(errors.New("boom"), 3, "x > y")
	assert.EqualError(t, other, `line 3: rule "x > y": boom`)
}
