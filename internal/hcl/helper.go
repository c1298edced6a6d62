package hcl

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/visualgrid/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source.
// For omitted optional attributes the decoder substitutes a zero-width
// placeholder expression, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}
