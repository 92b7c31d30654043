package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEngine(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Language
	}{
		{
			name:  "csproj at root",
			files: map[string]string{"Shop.csproj": "<Project/>"},
			want:  LangCSharp,
		},
		{
			name:  "csproj in subdirectory",
			files: map[string]string{"src/Shop.csproj": "<Project/>"},
			want:  LangCSharp,
		},
		{
			name:  "maven",
			files: map[string]string{"pom.xml": "<project/>"},
			want:  LangJava,
		},
		{
			name:  "gradle",
			files: map[string]string{"build.gradle": ""},
			want:  LangJava,
		},
		{
			name:  "tsconfig",
			files: map[string]string{"tsconfig.json": "{}", "package.json": "{}"},
			want:  LangTypeScript,
		},
		{
			name: "package.json with typescript dependency",
			files: map[string]string{
				"package.json": `{"devDependencies": {"typescript": "^5.0.0"}}`,
			},
			want: LangTypeScript,
		},
		{
			name:  "plain package.json",
			files: map[string]string{"package.json": `{"dependencies": {"express": "4"}}`},
			want:  LangJavaScript,
		},
		{
			name:  "pyproject",
			files: map[string]string{"pyproject.toml": ""},
			want:  LangPython,
		},
		{
			name:  "requirements",
			files: map[string]string{"requirements.txt": ""},
			want:  LangPython,
		},
		{
			name:  "gomod",
			files: map[string]string{"go.mod": "module m\n"},
			want:  LangGo,
		},
		{
			name: "csproj wins over package.json",
			files: map[string]string{
				"Shop.csproj":  "<Project/>",
				"package.json": "{}",
				"go.mod":       "module m\n",
			},
			want: LangCSharp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)
			eng, err := SelectEngine(root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eng.Language())
		})
	}
}

func TestSelectEngineNoMarkers(t *testing.T) {
	root := writeTree(t, map[string]string{"readme.md": "hello"})

	_, err := SelectEngine(root)
	var detect *DetectionError
	require.ErrorAs(t, err, &detect)
	assert.Equal(t, root, detect.Root)
}

func TestForLanguage(t *testing.T) {
	for _, lang := range Languages() {
		eng, err := ForLanguage(lang)
		require.NoError(t, err)
		assert.Equal(t, lang, eng.Language())
	}

	_, err := ForLanguage(Language("cobol"))
	assert.Error(t, err)
}

func TestLanguagesOrder(t *testing.T) {
	assert.Equal(t, []Language{
		LangCSharp, LangJava, LangTypeScript, LangJavaScript, LangPython, LangGo,
	}, Languages())
}
