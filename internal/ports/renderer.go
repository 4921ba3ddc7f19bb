package ports

// Renderer turns a kustomize overlay directory into a multi-document YAML
// stream of Kubernetes resources. The build engine itself is a black box.
type Renderer interface {
	Render(overlayDir string) ([]byte, error)
}
