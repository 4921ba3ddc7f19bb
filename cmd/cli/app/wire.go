//go:build wireinject
// +build wireinject

package app

import (
	"skiff/internal/adapters/cluster"
	"skiff/internal/adapters/command_runner"
	"skiff/internal/adapters/filesystem"
	"skiff/internal/adapters/kustomize"
	"skiff/internal/adapters/scm"
	"skiff/internal/core"
	"skiff/internal/core/handler"
	"skiff/internal/ports"

	"github.com/google/wire"
)

var Adapter = wire.NewSet(
	command_runner.ProvideOsCommandRunner,
	wire.Bind(new(ports.CommandRunner), new(*command_runner.OsCommandRunner)),
	filesystem.ProvideOsFileSystem,
	wire.Bind(new(ports.FileSystem), new(*filesystem.OsFileSystem)),
	kustomize.ProvideRenderer,
	wire.Bind(new(ports.Renderer), new(*kustomize.Renderer)),
	scm.ProvideGitClient,
	wire.Bind(new(ports.Scm), new(*scm.GitClient)),
)

// ClusterSet provides the deferred cluster constructor. Wiring it costs
// nothing; kubeconfig discovery happens only if the kubectl path invokes the
// provider, so gitops and dry-run deploys run without cluster access.
var ClusterSet = wire.NewSet(
	cluster.ProvideClusterProvider,
)

var CoreSet = wire.NewSet(
	core.ProvideMutator,
	core.ProvideInspector,
	core.ProvideGitOpsCommitter,
)

func InjectDeployCommandHandler() (handler.DeployCommandHandler, error) {
	wire.Build(
		Adapter,
		ClusterSet,
		CoreSet,
		handler.ProvideDeployCommandHandler,
	)
	return handler.DeployCommandHandler{}, nil
}

func InjectInspectCommandHandler() (handler.InspectCommandHandler, error) {
	wire.Build(
		Adapter,
		core.ProvideInspector,
		handler.ProvideInspectCommandHandler,
	)
	return handler.InspectCommandHandler{}, nil
}
