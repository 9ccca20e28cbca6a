package sink

import (
	"github.com/fpviz/fpviz/pkg/render/scene"
)

// RenderJSON exports the scene as indented JSON. The document decodes back
// with [scene.Unmarshal] and renders identically.
func RenderJSON(s *scene.Scene) ([]byte, error) {
	return scene.Marshal(s)
}
