package i18n_test

import (
	"testing"

	"github.com/shokoauto/notifybridge/pkg/i18n"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	c := i18n.NewCatalog("en", i18n.Branch{
		"plain":   i18n.Leaf("No placeholders"),
		"welcome": i18n.Leaf("Welcome, {name}!"),
		"search": i18n.Branch{
			"desc_started": i18n.Leaf("Searching {limit} episodes, {limit} max"),
			"detail":       i18n.Leaf("{series} - E{episode}: {status}"),
		},
		"braces": i18n.Leaf("{not valid} {} {ok}"),
	})

	tests := []struct {
		name   string
		key    string
		params i18n.Params
		want   string
	}{
		{name: "unknown key returns key", key: "does.not.exist", params: nil, want: "does.not.exist"},
		{name: "unknown key ignores params", key: "nope", params: i18n.Params{"name": "x"}, want: "nope"},
		{name: "branch key returns key", key: "search", params: nil, want: "search"},
		{name: "template without params", key: "plain", params: i18n.Params{}, want: "No placeholders"},
		{name: "missing param kept verbatim", key: "welcome", params: i18n.Params{}, want: "Welcome, {name}!"},
		{name: "full substitution", key: "welcome", params: i18n.Params{"name": "John"}, want: "Welcome, John!"},
		{name: "repeated placeholder", key: "search.desc_started", params: i18n.Params{"limit": 10}, want: "Searching 10 episodes, 10 max"},
		{
			name:   "mixed value types",
			key:    "search.detail",
			params: i18n.Params{"series": "Foo", "episode": 7, "status": "added"},
			want:   "Foo - E7: added",
		},
		{
			name:   "partial substitution",
			key:    "search.detail",
			params: i18n.Params{"series": "Foo"},
			want:   "Foo - E{episode}: {status}",
		},
		{name: "only word placeholders", key: "braces", params: i18n.Params{"ok": "yes", "not valid": "no"}, want: "{not valid} {} yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, i18n.Render(c, tt.key, tt.params))
		})
	}
}

func TestSubstituteSinglePass(t *testing.T) {
	t.Parallel()

	// a value that looks like a placeholder must not be expanded again
	got := i18n.Substitute("{a} and {b}", i18n.Params{"a": "{b}", "b": "B"})
	assert.Equal(t, "{b} and B", got)

	got = i18n.Substitute("{a}", i18n.Params{"a": "{a}"})
	assert.Equal(t, "{a}", got)
}

func TestSubstituteNilKeepsPlaceholder(t *testing.T) {
	t.Parallel()

	got := i18n.Substitute("next run: {next}, added: {added}", i18n.Params{"next": nil, "added": 0})
	assert.Equal(t, "next run: {next}, added: 0", got)

	var typedNil *string
	got = i18n.Substitute("{v}", i18n.Params{"v": typedNil})
	assert.Equal(t, "<nil>", got, "typed nil pointers are values")
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	c := i18n.NewCatalog("en", i18n.Branch{"k": i18n.Leaf("{x}-{y}")})
	params := i18n.Params{"x": 1.5, "y": "two"}

	first := i18n.Render(c, "k", params)
	for range 50 {
		assert.Equal(t, first, i18n.Render(c, "k", params))
	}
	assert.Equal(t, "1.5-two", first)
}
