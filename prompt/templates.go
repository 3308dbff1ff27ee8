package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Planning holds the template variants used by the planning phase. The
// initial variants run on step 1; the update variants fold accumulated
// facts back in on later steps.
type Planning struct {
	InitialFacts           string `yaml:"initial_facts"`
	InitialPlan            string `yaml:"initial_plan"`
	UpdateFactsPreMessages string `yaml:"update_facts_pre_messages"`
	UpdateFactsPostMessage string `yaml:"update_facts_post_messages"`
	UpdatePlanPreMessages  string `yaml:"update_plan_pre_messages"`
	UpdatePlanPostMessages string `yaml:"update_plan_post_messages"`
}

// ManagedAgent holds templates for delegating tasks to managed sub-agents.
type ManagedAgent struct {
	Task   string `yaml:"task"`
	Report string `yaml:"report"`
}

// FinalAnswer holds templates bracketing a forced final answer request.
type FinalAnswer struct {
	PreMessages  string `yaml:"pre_messages"`
	PostMessages string `yaml:"post_messages"`
}

// Templates is the fully-resolved template set handed to the agent
// constructor. Core logic never touches the file system; load or build the
// struct up front and pass it in.
type Templates struct {
	SystemPrompt string       `yaml:"system_prompt"`
	Planning     Planning     `yaml:"planning"`
	ManagedAgent ManagedAgent `yaml:"managed_agent"`
	FinalAnswer  FinalAnswer  `yaml:"final_answer"`
}

// Load reads and parses a YAML template file.
func Load(path string) (Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read prompt templates: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML template document.
func Parse(raw []byte) (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Templates{}, fmt.Errorf("parse prompt templates: %w", err)
	}
	return t, nil
}

// Validate reports structural faults that must stop agent construction:
// the system prompt and both plan variants are required.
func (t Templates) Validate() error {
	if strings.TrimSpace(t.SystemPrompt) == "" {
		return fmt.Errorf("prompt templates: system_prompt is empty")
	}
	if strings.TrimSpace(t.Planning.InitialPlan) == "" {
		return fmt.Errorf("prompt templates: planning.initial_plan is empty")
	}
	if strings.TrimSpace(t.Planning.UpdatePlanPostMessages) == "" {
		return fmt.Errorf("prompt templates: planning.update_plan_post_messages is empty")
	}
	return nil
}

// Substitute replaces each {name} placeholder with its value by literal
// substring replacement. Placeholders present in vars but absent from the
// template are ignored without error; placeholders in the template with no
// entry in vars are left as-is.
func Substitute(template string, vars map[string]string) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

// Default returns the built-in template set for tool-calling agents.
func Default() Templates {
	return Templates{
		SystemPrompt: `You are an expert assistant who solves tasks step by step using the tools at your disposal.
You will be given a task and must plan, act and observe until you can provide a final answer.

You only have access to these tools:
{tools}

To call a tool, output a line starting with "Action:" followed by a JSON object with the keys "name" and "arguments".
When you know the final answer, call the final_answer tool.`,
		Planning: Planning{
			InitialFacts: `Below is the task. List the facts you already know that will help you solve it, and the facts you still need to find out.

Task:
{task}`,
			InitialPlan: `You are given a task:
{task}

You can use these tools:
{tools}

{managed_agents}

First, list the facts you know and the facts you need to look up.
Then write a short step-by-step plan to solve the task. Do not execute anything yet.`,
			UpdateFactsPreMessages: `You are updating your list of known facts for the ongoing task. Below is the history of what has been tried so far.`,
			UpdateFactsPostMessage: `Based on the history above, update your list of known facts and facts still to find out.

Task:
{task}`,
			UpdatePlanPreMessages: `You are revising your plan for the ongoing task. Below is the history of what has been tried so far.`,
			UpdatePlanPostMessages: `Based on the history above, write an updated step-by-step plan to solve the task.
Known facts so far:
{answer_facts}

{facts_update}

You have {remaining_steps} steps remaining.

Task:
{task}`,
		},
		ManagedAgent: ManagedAgent{
			Task: `You are a managed agent named '{name}'. Your manager has given you this task:
{task}

Complete it and report back.`,
			Report: `Report from managed agent '{name}':
{final_answer}`,
		},
		FinalAnswer: FinalAnswer{
			PreMessages:  `An agent tried to solve the task below but got stuck. You must now provide a final answer based on its attempts.`,
			PostMessages: `Based on the attempts above, answer the task:
{task}`,
		},
	}
}
