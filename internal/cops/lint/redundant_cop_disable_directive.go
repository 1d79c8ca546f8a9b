package lint

import (
	"rblint/internal/cop"
	"rblint/internal/diag"
)

// RedundantCopDisableDirective is evaluated by the engine after directives
// have been applied; it has no checks of its own. Registering it makes it
// configurable like any other cop.
type RedundantCopDisableDirective struct{ cop.Base }

func (RedundantCopDisableDirective) Name() string                   { return "Lint/RedundantCopDisableDirective" }
func (RedundantCopDisableDirective) DefaultSeverity() diag.Severity { return diag.SevWarning }
func (RedundantCopDisableDirective) SupportsAutocorrect() bool      { return true }
