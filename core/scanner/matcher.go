package scanner

import (
	"github.com/tristendillon/weexscan/core/ast"
	"github.com/tristendillon/weexscan/core/models"
)

// RequireModuleName is the runtime accessor for native modules.
const RequireModuleName = "requireModule"

// MatchRequireModule reports whether id is the property of a member
// expression that is immediately called, as in weex.requireModule('x'),
// and returns that call. When namespace is non-empty the member object
// must be an identifier with that name.
func MatchRequireModule(id *ast.Identifier, namespace string) (*ast.CallExpression, bool) {
	if id.Name != RequireModuleName {
		return nil, false
	}
	member, ok := id.Parent().(*ast.MemberExpression)
	if !ok || member.Property != ast.Node(id) {
		return nil, false
	}
	if namespace != "" {
		obj, ok := member.Object.(*ast.Identifier)
		if !ok || obj.Name != namespace {
			return nil, false
		}
	}
	call, ok := member.Parent().(*ast.CallExpression)
	if !ok || call.Callee != ast.Node(member) {
		return nil, false
	}
	return call, true
}

// ModuleName returns the first argument of call when it is a literal.
func ModuleName(call *ast.CallExpression) (string, bool) {
	if len(call.Arguments) == 0 {
		return "", false
	}
	lit, ok := call.Arguments[0].(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// requireModuleVisitor counts requireModule calls into a shared counter.
type requireModuleVisitor struct {
	namespace string
	counts    models.Counter
	skipped   int
}

func (v *requireModuleVisitor) Visit(n ast.Node) ast.Visitor {
	id, ok := n.(*ast.Identifier)
	if !ok {
		return v
	}
	call, ok := MatchRequireModule(id, v.namespace)
	if !ok {
		return v
	}
	name, ok := ModuleName(call)
	if !ok {
		v.skipped++
		return v
	}
	v.counts.Inc(name)
	return v
}
