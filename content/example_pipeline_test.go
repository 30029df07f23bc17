package content_test

import (
	"fmt"
	"strings"

	"github.com/plus3/stagekit/content"
)

type Sprite struct {
	Frames []string
}

func Example() {
	p := content.NewPipeline(content.WithLogger(quietLogger()))

	loads := 0
	content.RegisterProcessor[*Sprite](p, content.ProcessorFuncs[*Sprite]{
		LoadFunc: func(path string) (*Sprite, error) {
			loads++
			return &Sprite{Frames: strings.Split(path, ",")}, nil
		},
	})

	walk := content.TypeOf[*Sprite]("walk1,walk2,walk3")
	a, _ := content.Load(p, walk)
	b, _ := content.Load(p, walk)

	fmt.Println("same handle:", a == b)
	fmt.Println("processor loads:", loads)
	fmt.Println("frames:", len(a.Value().Frames))
	fmt.Println("refs:", content.RefCount(p, walk))

	content.Unload(p, a)
	content.Unload(p, b)
	fmt.Println("cached:", p.Len())
	// Output:
	// same handle: true
	// processor loads: 1
	// frames: 3
	// refs: 2
	// cached: 0
}
