package ports

// CommitResult reports the outcome of a commit-and-push attempt.
type CommitResult struct {
	// NoChanges is true when the staged paths carried no diff; nothing was
	// committed or pushed. This is a success signal, not an error.
	NoChanges bool
	// Revision is the commit hash that was pushed.
	Revision string
}

// Scm stages, commits, and pushes overlay changes on the currently checked-out
// branch of the repository containing repoDir.
type Scm interface {
	CommitAndPush(repoDir string, paths []string, message string) (CommitResult, error)
}
