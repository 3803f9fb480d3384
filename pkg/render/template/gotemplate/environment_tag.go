package gotemplate

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-mathtags/pkg/environment"
)

// TagName is the pongo2 block tag wrapping content in an environment:
//
//	{% environment "thm" '{"id":"pigeonhole"}' %}...{% endenvironment %}
//
// The first argument names the environment, the optional second argument is
// the inline argument. Non-string arguments are JSON encoded first, so a
// context map such as {"id": "x"} works as well.
const TagName = "environment"

// registryKey stores the engine registry in the template set globals.
const registryKey = "_mathtags_environments"

var (
	registerOnce sync.Once
	registerErr  error

	fallbackOnce     sync.Once
	fallbackRegistry *environment.Registry
)

// registerEnvironmentTag installs the tag in pongo2's process-wide tag table
// exactly once.
func registerEnvironmentTag() error {
	registerOnce.Do(func() {
		registerErr = pongo2.RegisterTag(TagName, parseEnvironmentTag)
	})
	return registerErr
}

type environmentNode struct {
	token    *pongo2.Token
	name     pongo2.IEvaluator
	argument pongo2.IEvaluator
	wrapper  *pongo2.NodeWrapper
}

func (node *environmentNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	nameValue, perr := node.name.Evaluate(ctx)
	if perr != nil {
		return perr
	}

	env, err := lookupRegistry(ctx).Get(strings.TrimSpace(nameValue.String()))
	if err != nil {
		return ctx.OrigError(err, node.token)
	}

	argument := ""
	if node.argument != nil {
		value, perr := node.argument.Evaluate(ctx)
		if perr != nil {
			return perr
		}
		argument = argumentString(value)
	}

	var content bytes.Buffer
	if perr := node.wrapper.Execute(ctx, &content); perr != nil {
		return perr
	}

	if _, err := writer.WriteString(env.Render(content.String(), argument)); err != nil {
		return ctx.OrigError(err, node.token)
	}
	return nil
}

func parseEnvironmentTag(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	if arguments.Remaining() == 0 {
		return nil, arguments.Error("Tag 'environment' requires an environment name.", nil)
	}

	node := &environmentNode{token: start}

	name, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node.name = name

	if arguments.Remaining() > 0 {
		argument, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.argument = argument
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("Malformed environment-tag arguments.", nil)
	}

	wrapper, endargs, err := doc.WrapUntilTag("end" + TagName)
	if err != nil {
		return nil, err
	}
	if endargs.Count() > 0 {
		return nil, endargs.Error("Arguments not allowed here.", nil)
	}
	node.wrapper = wrapper

	return node, nil
}

func lookupRegistry(ctx *pongo2.ExecutionContext) *environment.Registry {
	if reg, ok := ctx.Public[registryKey].(*environment.Registry); ok && reg != nil {
		return reg
	}
	fallbackOnce.Do(func() {
		fallbackRegistry = environment.DefaultRegistry()
	})
	return fallbackRegistry
}

// argumentString turns the evaluated inline argument into the raw text the
// environment parser expects. Values that cannot be encoded become "" and
// render like an absent argument.
func argumentString(value *pongo2.Value) string {
	if value == nil || value.IsNil() {
		return ""
	}
	if value.IsString() {
		return value.String()
	}
	raw, err := json.Marshal(value.Interface())
	if err != nil {
		return ""
	}
	return string(raw)
}
