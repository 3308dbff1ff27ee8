package agent

import (
	"fmt"
	"strings"

	"github.com/stridekit/stride/core"
	"github.com/stridekit/stride/memory"
	"github.com/stridekit/stride/prompt"
)

// planningMessages builds the prompt for the Planning state. Step 1 uses
// the initial plan template over the bare task; later steps use the update
// variant, replaying the accumulated memory in summary mode and folding the
// collected facts back in.
func (a *Agent) planningMessages(task string, stepNumber int) []core.Message {
	if stepNumber == 1 {
		content := prompt.Substitute(a.templates.Planning.InitialPlan, map[string]string{
			"task":           task,
			"tools":          a.actions.DescribeAll(),
			"managed_agents": "",
		})
		return []core.Message{core.UserMessage(content)}
	}

	msgs := []core.Message{core.SystemMessage(a.templates.Planning.UpdatePlanPreMessages)}
	msgs = append(msgs, a.mem.Replay(true)...)

	facts, latest := a.collectFacts()
	post := prompt.Substitute(a.templates.Planning.UpdatePlanPostMessages, map[string]string{
		"task":            task,
		"answer_facts":    facts,
		"facts_update":    latest,
		"remaining_steps": fmt.Sprintf("%d", a.maxSteps-stepNumber+1),
	})
	return append(msgs, core.UserMessage(post))
}

// collectFacts gathers the observations of every prior action step (the
// accumulated facts) and, separately, those of the most recent one (the
// update since the last plan).
func (a *Agent) collectFacts() (all string, latest string) {
	var facts []string
	for _, step := range a.mem.Steps() {
		as, ok := step.(memory.ActionStep)
		if !ok || as.Observations == nil {
			continue
		}
		facts = append(facts, *as.Observations)
	}
	if len(facts) == 0 {
		return "", ""
	}
	return strings.Join(facts, "\n"), facts[len(facts)-1]
}
