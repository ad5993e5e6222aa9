package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
  <h1>Economic indicators</h1>
  <p class="intro">Figures in <b>billions</b> of USD.</p>
  <p class="note">Updated yearly.</p>
  <ul>
    <li>GDP</li>
    <li>CPI</li>
  </ul>
</body>
</html>`

func TestFindAll(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	var texts []string
	for n := range doc.FindAll("li", nil) {
		texts = append(texts, n.Text())
	}
	assert.Equal(t, []string{"GDP", "CPI"}, texts, "matches come in document order")
}

func TestFindAllByAttribute(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	var texts []string
	for n := range doc.FindAll("p", map[string]string{"class": "note"}) {
		texts = append(texts, n.Text())
	}
	assert.Equal(t, []string{"Updated yearly."}, texts)
}

func TestFindAllIsRestartable(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	seq := doc.FindAll("li", nil)
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second, "ranging twice walks the tree twice")
}

func TestFindAllEarlyBreak(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	var got []string
	for n := range doc.FindAll("li", nil) {
		got = append(got, n.Text())
		break
	}
	assert.Equal(t, []string{"GDP"}, got)
}

func TestFirst(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	h1 := doc.First("h1", nil)
	require.NotNil(t, h1)
	assert.Equal(t, "Economic indicators", h1.Text())

	assert.Nil(t, doc.First("video", nil))
}

func TestNodeTextConcatenatesDescendants(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	p := doc.First("p", map[string]string{"class": "intro"})
	require.NotNil(t, p)
	assert.Equal(t, "Figures in billions of USD.", p.Text())
}

func TestNodeAttributes(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	p := doc.First("p", map[string]string{"class": "intro"})
	require.NotNil(t, p)
	assert.Equal(t, map[string]string{"class": "intro"}, p.Attributes())
	assert.Equal(t, "p", p.Tag())
}

func TestNodeFindAllScopesToDescendants(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage), "page.html")
	require.NoError(t, err)

	ul := doc.First("ul", nil)
	require.NotNil(t, ul)
	count := 0
	for range ul.FindAll("p", nil) {
		count++
	}
	assert.Zero(t, count, "p elements are outside the list")
}
