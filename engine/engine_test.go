package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/generic"
	"caster-engine/internal/diagnostic"
	"caster-engine/internal/errors"
)

func codes(diag diagnostic.Diagnostics) []string {
	var out []string
	for _, d := range diag.Errors {
		out = append(out, d.Code)
	}

	return out
}

func configurationError(t *testing.T, err error) *ConfigurationError {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	return cfgErr
}

func TestNewRejectsDuplicatePairs(t *testing.T) {
	first, second := NewProfile("first"), NewProfile("second")
	CreateMap[Widget, WidgetDTO](first)
	CreateMap[Widget, WidgetDTO](second)

	_, err := New([]*Profile{first, second})

	cfgErr := configurationError(t, err)
	assert.Equal(t, []string{diagnostic.CodeDuplicateMap}, codes(cfgErr.Diagnostics))
	assert.Contains(t, err.Error(), `declared in profile "first" and again in profile "second"`)
}

func TestNewReportsEveryProblem(t *testing.T) {
	p := NewProfile("bad")
	CreateMap[Widget, WidgetDTO](p).
		ForMember("Nam", MapFrom("Name")).
		ForMember("Size", MapFrom("Weight"))
	CreateMap[Box[generic.T1], Wrapper[generic.T2]](p)
	CreateMap[S1, D1](p).Include(PairOf[S2, D2]())

	_, err := New([]*Profile{p})

	cfgErr := configurationError(t, err)
	assert.ElementsMatch(t, []string{
		diagnostic.CodeUnknownMember,
		diagnostic.CodeBadSourcePath,
		diagnostic.CodeOpenGeneric,
		diagnostic.CodeMissingInclude,
	}, codes(cfgErr.Diagnostics))

	assert.Equal(t, []string{"Name"}, cfgErr.Diagnostics.Errors[0].Suggestions)
}

func TestNewRejectsBadFunctions(t *testing.T) {
	p := NewProfile("funcs")
	CreateMap[Widget, WidgetDTO](p).
		ConstructUsing(func(g Gadget) WidgetDTO { return WidgetDTO{} }).
		AfterMap(func(w Widget) {}).
		ForMember("Name", ResolveUsing("not a func"))

	_, err := New([]*Profile{p})

	cfgErr := configurationError(t, err)
	assert.Equal(t, []string{diagnostic.CodeBadFunc, diagnostic.CodeBadFunc, diagnostic.CodeBadFunc}, codes(cfgErr.Diagnostics))
}

func TestNewRejectsIncludeCycle(t *testing.T) {
	p := NewProfile("cycle")
	CreateMap[S1, D1](p).Include(PairOf[S2, D2]())
	CreateMap[S2, D2](p).Include(PairOf[S2, D2]())

	_, err := New([]*Profile{p})

	cfgErr := configurationError(t, err)
	assert.Contains(t, codes(cfgErr.Diagnostics), diagnostic.CodeIncludeCycle)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(nil, WithMaxDepth(-1))
	require.Error(t, err)

	_, err = New(nil, WithTextConverter(func(int) int { return 0 }))
	require.Error(t, err)

	_, err = New(nil, WithKnownInterfaces(typeOf[Widget]()))
	require.Error(t, err)
}

func TestSealBindsMembers(t *testing.T) {
	p := NewProfile("orders")
	orders := CreateMap[Order, OrderDTO](p).
		ForMember("Email", MapFrom("Customer.Email")).
		ForMember("Notes", Ignore()).
		ForMember("Source", UseValue("web")).
		ForMember("Audit", ResolveUsing(func(o Order) string { return "audit" }))
	CreateMap[Line, LineDTO](p)

	e := build(t, p)

	require.True(t, orders.IsSealed())
	assert.Empty(t, orders.Unmapped())

	byName := make(map[string]*MemberMap)
	for _, m := range orders.Members() {
		byName[m.Name] = m
	}

	assert.Equal(t, "Customer.Name", byName["CustomerName"].SourcePath)
	assert.Equal(t, "Customer.Email", byName["Email"].SourcePath)
	assert.Equal(t, "Total", byName["Total"].SourcePath)
	assert.True(t, byName["Notes"].Ignored)
	assert.Equal(t, "value", byName["Source"].SourcePath)
	assert.Equal(t, "resolver", byName["Audit"].SourcePath)
	assert.Same(t, e.ResolveTypeMap(PairOf[Line, LineDTO]()), byName["Lines"].Nested)
}

func TestSealSelfReferencingMap(t *testing.T) {
	p := NewProfile("tree")
	categories := CreateMap[Category, CategoryDTO](p)

	build(t, p)

	require.True(t, categories.IsSealed())

	for _, m := range categories.Members() {
		if m.Name == "Parent" || m.Name == "Subs" {
			assert.Same(t, categories, m.Nested, m.Name)
		}
	}
}

func TestReverseMap(t *testing.T) {
	p := NewProfile("reverse")
	CreateMap[Gadget, WidgetDTO](p).
		ForMember("Name", MapFrom("Label")).
		ForMember("Size", Ignore()).
		ReverseMap().
		ForMember("Weight", Ignore())

	e := build(t, p)
	m := NewMapper(e)

	dto, err := Map[Gadget, WidgetDTO](m, Gadget{Label: "hook"})
	require.NoError(t, err)
	assert.Equal(t, WidgetDTO{Name: "hook"}, dto)

	back, err := Map[WidgetDTO, Gadget](m, dto)
	require.NoError(t, err)
	assert.Equal(t, Gadget{Label: "hook"}, back)
}

func TestKnownInterfaces(t *testing.T) {
	p := NewProfile("labels")
	CreateMap[Named, LabelDTO](p)

	e := build(t, p)

	assert.Equal(t, []string{"engine.Named"}, typeNames(e.KnownInterfaces()))
	assert.Len(t, e.TypeMaps(), 1)
	assert.Empty(t, e.Templates())
}
