package dom_test

import (
	"testing"

	"github.com/fwojciec/dagkrant/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *dom.Document {
	t.Helper()
	d, err := dom.Parse(raw)
	require.NoError(t, err)
	return d
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("renders fragments without wrappers", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<p>Hello <b>world</b></p>`)

		assert.True(t, d.IsFragment())
		assert.Equal(t, `<p>Hello <b>world</b></p>`, d.Render())
	})

	t.Run("renders full documents with wrappers", func(t *testing.T) {
		t.Parallel()

		raw := `<html><head></head><body><p>x</p></body></html>`
		d := mustParse(t, raw)

		assert.False(t, d.IsFragment())
		assert.Equal(t, raw, d.Render())
	})

	t.Run("root has no parent and body sits under html", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<html><body><p>x</p></body></html>`)

		body := d.Body()
		require.NotEqual(t, dom.None, body)
		assert.Equal(t, dom.None, d.Parent(dom.Root))
		assert.True(t, d.IsElement(d.Parent(body), "html"))
		assert.Equal(t, dom.DocumentNode, d.Kind(dom.Root))
	})
}

func TestDocument_Remove(t *testing.T) {
	t.Parallel()

	t.Run("detaches node and keeps siblings in order", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<div><p>a</p><p>b</p><p>c</p></div>`)
		ps := d.Find("p")
		require.Len(t, ps, 3)

		d.Remove(ps[1])

		assert.Equal(t, `<div><p>a</p><p>c</p></div>`, d.Render())
		assert.False(t, d.Attached(ps[1]))
		assert.True(t, d.Attached(ps[0]))
	})

	t.Run("marks the whole subtree dead", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<div><span>a</span></div><p>b</p>`)
		div := d.First("div")
		span := d.First("span")

		d.Remove(div)

		assert.False(t, d.Attached(span))
		assert.Equal(t, `<p>b</p>`, d.Render())
	})

	t.Run("removing twice is a no-op", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<p>a</p><p>b</p>`)
		p := d.First("p")

		d.Remove(p)
		d.Remove(p)

		assert.Equal(t, `<p>b</p>`, d.Render())
	})

	t.Run("refuses to remove the root", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<p>a</p>`)

		d.Remove(dom.Root)

		assert.Equal(t, `<p>a</p>`, d.Render())
	})
}

func TestDocument_Unwrap(t *testing.T) {
	t.Parallel()

	d := mustParse(t, `<p>x<span><b>a</b>b</span>y</p>`)
	span := d.First("span")

	d.Unwrap(span)

	assert.Equal(t, `<p>x<b>a</b>by</p>`, d.Render())
	assert.False(t, d.Attached(span))
	assert.True(t, d.Attached(d.First("b")))
}

func TestDocument_ReplaceWith(t *testing.T) {
	t.Parallel()

	d := mustParse(t, `<div><table><tbody><tr><td>E</td></tr></tbody></table><p>z</p></div>`)
	table := d.First("table")
	td := d.First("td")
	p := d.NewElement("p")
	d.AppendChild(p, d.NewText("Een"))

	d.ReplaceWith(table, p)

	assert.Equal(t, `<div><p>Een</p><p>z</p></div>`, d.Render())
	assert.False(t, d.Attached(td))
	assert.Empty(t, d.Find("td"))
}

func TestDocument_Text(t *testing.T) {
	t.Parallel()

	t.Run("trims each text node and concatenates", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, "<div> Hello <b> world </b>\n</div>")
		div := d.First("div")

		assert.Equal(t, "Helloworld", d.Text(div))
		assert.Equal(t, 10, d.TextLen(div))
		assert.Equal(t, "Hello world", d.JoinedText(div, " "))
		assert.Equal(t, " Hello  world \n", d.RawText(div))
		assert.Equal(t, 2, d.WordCount(div))
	})

	t.Run("skips style and script content", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<div><style>p{color:red}</style><script>var a;</script><p>x</p></div>`)

		assert.Equal(t, "x", d.Text(d.First("div")))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, `<p>café ©</p>`)

		assert.Equal(t, 6, d.TextLen(d.First("p")))
	})
}

func TestDocument_SoleText(t *testing.T) {
	t.Parallel()

	d := mustParse(t, `<p id="a"><b>only</b></p><p id="b">x<b>y</b></p>`)
	ps := d.Find("p")

	s, ok := d.SoleText(ps[0])
	assert.True(t, ok)
	assert.Equal(t, "only", s)

	_, ok = d.SoleText(ps[1])
	assert.False(t, ok)
}

func TestDocument_Attributes(t *testing.T) {
	t.Parallel()

	d := mustParse(t, `<img src="a.png" WIDTH="1">`)
	img := d.First("img")

	v, ok := d.LookupAttr(img, "width")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Empty(t, d.Attr(img, "style"))

	d.SetAttr(img, "width", "2")
	d.SetAttr(img, "alt", "x")

	assert.Equal(t, `<img src="a.png" width="2" alt="x"/>`, d.Render())
}

func TestDocument_Siblings(t *testing.T) {
	t.Parallel()

	d := mustParse(t, `<div><h3>Ad</h3> <p>body</p><p>more</p></div>`)
	h3 := d.First("h3")

	next := d.NextElementSibling(h3)

	assert.True(t, d.IsElement(next, "p"))
	assert.Len(t, d.FollowingSiblings(h3), 3)
	assert.True(t, d.HasDescendant(d.First("div"), "p"))
	assert.False(t, d.HasDescendant(h3, "p"))
}

func TestDocument_Outer(t *testing.T) {
	t.Parallel()

	d := mustParse(t, `<div><p class="a">Hallo <b>wereld</b></p><span>weg</span></div>`)
	d.Remove(d.First("span"))

	assert.Equal(t, `<p class="a">Hallo <b>wereld</b></p>`, d.Outer(d.First("p")))
	assert.Equal(t, `<div><p class="a">Hallo <b>wereld</b></p></div>`, d.Outer(d.First("div")))
}
