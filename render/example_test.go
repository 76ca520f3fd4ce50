package render_test

import (
	"fmt"

	"github.com/corpusai/corpuschat/render"
)

// Embedding an assistant reply in a page: render the markdown and trust the
// result, since the sanitizer has already run.
func ExampleToHTML() {
	fmt.Print(render.ToHTML("**Scaling Postgres** covers sharding."))
	// Output: <p><strong>Scaling Postgres</strong> covers sharding.</p>
}
