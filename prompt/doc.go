// Package prompt holds the template set driving the planning and execution
// loop and the literal placeholder substitution applied to it.
//
// Templates are plain strings with recognized placeholders ({task}, {tools},
// {managed_agents}, {answer_facts}, {facts_update}, {remaining_steps})
// replaced by literal substring substitution. A placeholder absent from a
// template is simply not substituted; an expected placeholder missing from
// the template text is silently ignored. Both behaviors are deliberate and
// covered by tests so a stricter rewrite cannot break them accidentally.
//
// Template files use the YAML shape of toolcalling agents (system_prompt,
// planning.*, managed_agent.*, final_answer.*); Load parses them with
// gopkg.in/yaml.v3. Default returns a built-in set so no file system access
// is required.
package prompt
