package validators

import (
	"github.com/google/cel-go/cel"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// constraintEnv exposes the itinerary item under evaluation and the
// traveler brief to constraint expressions, e.g.
//
//	item.outdoor ? brief.party_size <= 4 : true
var constraintEnv, _ = cel.NewEnv(
	cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
	cel.Variable("brief", cel.MapType(cel.StringType, cel.DynType)),
)

type compiledConstraint struct {
	code    string
	message string
	prg     cel.Program
}

// compileConstraints compiles the brief's CEL constraints. Expressions
// that fail to compile become warning findings; the remainder still run.
func compileConstraints(constraints []scenario.Constraint) ([]compiledConstraint, []models.Finding) {
	var compiled []compiledConstraint
	var findings []models.Finding

	for _, c := range constraints {
		ast, iss := constraintEnv.Compile(c.Expr)
		if iss != nil && iss.Err() != nil {
			findings = append(findings, finding(models.CodeInfeasible, models.SeverityWarning, "",
				"constraint %q does not compile: %v", c.Code, iss.Err()))
			continue
		}
		prg, err := constraintEnv.Program(ast)
		if err != nil {
			findings = append(findings, finding(models.CodeInfeasible, models.SeverityWarning, "",
				"constraint %q cannot run: %v", c.Code, err))
			continue
		}
		compiled = append(compiled, compiledConstraint{code: c.Code, message: c.Message, prg: prg})
	}
	return compiled, findings
}

// holds reports whether the constraint is satisfied for the given item.
// Evaluation errors count as satisfied: a broken expression must not
// penalize the agent.
func (c compiledConstraint) holds(item, brief map[string]any) bool {
	out, _, err := c.prg.Eval(map[string]any{"item": item, "brief": brief})
	if err != nil {
		return true
	}
	ok, isBool := out.Value().(bool)
	return !isBool || ok
}

func itemVars(item models.ItineraryItem) map[string]any {
	return map[string]any{
		"day":        item.Day,
		"activity":   item.Activity,
		"start_time": item.StartTime,
		"end_time":   item.EndTime,
		"location":   item.Location,
		"lat":        item.Lat,
		"lon":        item.Lon,
		"outdoor":    item.Outdoor,
	}
}

func briefVars(brief scenario.TravelerBrief) map[string]any {
	return map[string]any{
		"destination":    brief.Destination,
		"origin":         brief.Origin,
		"start_date":     brief.StartDate,
		"end_date":       brief.EndDate,
		"budget_ceiling": brief.BudgetCeiling,
		"party_size":     brief.PartySize,
		"pet_friendly":   brief.PetFriendly,
	}
}
