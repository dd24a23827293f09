package tools

import (
	"github.com/petasbytes/tool-agent/internal/calc"
)

var CalculatorDefinition = ToolDefinition{
	Name:        "calculator",
	Description: "Useful for performing mathematical calculations. Input should be a valid mathematical expression like '25 * 4 + 10'. Supports + - * / // % ** and parentheses.",
	InputSchema: InputSchema,
	Function:    Calculate,
}

// Calculate evaluates expr and never returns an error: failures come back as
// "Error: <message>" so the model sees a uniform string result.
func Calculate(expr string) (string, error) {
	v, err := calc.Eval(expr)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return calc.Format(v), nil
}
