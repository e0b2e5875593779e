package ir

import (
	"fmt"
	"strings"
)

// Print renders the whole module as textual LLVM IR.
func (m *Module) Print() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "; ModuleID = '%s'\n", m.Name)
	fmt.Fprintf(&buf, "target triple = %q\n\n", m.Target.Triple)

	for _, td := range m.typeDefs {
		buf.WriteString(td)
		buf.WriteString("\n")
	}
	if len(m.typeDefs) > 0 {
		buf.WriteString("\n")
	}

	for _, g := range m.Globals {
		m.printGlobal(&buf, g)
	}
	if len(m.Globals) > 0 {
		buf.WriteString("\n")
	}

	m.printUsed(&buf)

	for _, f := range m.Funcs {
		if f.Body == nil {
			m.printFuncDecl(&buf, f)
		}
	}
	buf.WriteString("\n")
	for _, f := range m.Funcs {
		if f.Body != nil {
			m.printFuncDef(&buf, f)
		}
	}
	return buf.String()
}

func (m *Module) printGlobal(buf *strings.Builder, g *Global) {
	if g.External {
		ty := g.DeclType
		if ty == "" {
			ty = "ptr"
		}
		fmt.Fprintf(buf, "%s = external global %s\n", RefText(g.Name), ty)
		return
	}
	kind := "global"
	if g.Const {
		kind = "constant"
	}
	unnamed := ""
	if g.UnnamedAddr {
		unnamed = "unnamed_addr "
	}
	init := "zeroinitializer"
	ty := "ptr"
	if g.Init != nil {
		init = stripType(g.Init)
		ty = g.Init.TypeText()
	}
	fmt.Fprintf(buf, "%s = %s%s%s%s %s %s", RefText(g.Name),
		g.Linkage, g.Visibility, unnamed, kind, ty, init)
	if g.Section != "" {
		fmt.Fprintf(buf, ", section %q", g.Section)
	}
	if g.Align > 0 {
		fmt.Fprintf(buf, ", align %d", g.Align)
	}
	buf.WriteString("\n")
}

func (m *Module) printUsed(buf *strings.Builder) {
	if len(m.used) == 0 {
		return
	}
	refs := make([]string, 0, len(m.used))
	for _, g := range m.used {
		refs = append(refs, "ptr "+RefText(g.Name))
	}
	fmt.Fprintf(buf, "@llvm.used = appending global [%d x ptr] [%s], section \"llvm.metadata\"\n\n",
		len(m.used), strings.Join(refs, ", "))
}

func (m *Module) printFuncDecl(buf *strings.Builder, f *Func) {
	params := strings.Join(paramTypes(f), ", ")
	attrs := ""
	if f.Attrs != "" {
		attrs = " " + f.Attrs
	}
	fmt.Fprintf(buf, "declare %s %s(%s)%s\n", f.RetType, RefText(f.Name), params, attrs)
}

func (m *Module) printFuncDef(buf *strings.Builder, f *Func) {
	unnamed := ""
	if f.UnnamedAddr {
		unnamed = "unnamed_addr "
	}
	params := strings.Join(f.Params, ", ")
	attrs := ""
	if f.Attrs != "" {
		attrs = " " + f.Attrs
	}
	fmt.Fprintf(buf, "define %s%s%s %s(%s)%s {\n", f.Linkage, unnamed,
		f.RetType, RefText(f.Name), params, attrs)
	for _, line := range f.Body {
		buf.WriteString("  ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	buf.WriteString("}\n\n")
}

func paramTypes(f *Func) []string {
	out := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		out = append(out, paramType(p))
	}
	if f.Variadic {
		out = append(out, "...")
	}
	return out
}
