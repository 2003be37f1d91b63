package commitgen

// CommitTypes are the conventional-commit types messages are drawn from
var CommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "perf", "test", "chore",
	"build", "ci", "revert",
}

// Scopes are the project areas a message can reference
var Scopes = []string{
	"scanner", "webcam", "image", "cli", "gui", "export", "logging",
	"error-handling", "utils", "config", "deps", "docs", "tests",
}

var featMessages = []string{
	"add {scope} functionality",
	"implement {scope} feature",
	"introduce {scope} support",
	"add new {scope} capabilities",
	"implement {scope} module",
	"add {scope} integration",
	"create {scope} component",
	"add {scope} feature with validation",
	"implement advanced {scope} features",
	"add {scope} with error handling",
	"introduce {scope} API",
	"add {scope} configuration options",
	"implement {scope} with logging",
	"add {scope} export functionality",
	"create {scope} interface",
	"add {scope} batch processing",
	"implement {scope} preview mode",
	"add {scope} real-time processing",
	"introduce {scope} optimization",
	"add {scope} multi-threading support",
}

var fixMessages = []string{
	"fix {scope} bug",
	"resolve {scope} issue",
	"fix {scope} error handling",
	"correct {scope} logic",
	"fix {scope} memory leak",
	"resolve {scope} race condition",
	"fix {scope} edge case",
	"correct {scope} validation",
	"fix {scope} performance issue",
	"resolve {scope} compatibility issue",
	"fix {scope} timeout handling",
	"correct {scope} exception handling",
	"fix {scope} resource cleanup",
	"resolve {scope} encoding issue",
	"fix {scope} camera initialization",
	"correct {scope} file path handling",
	"fix {scope} thread safety",
	"resolve {scope} buffer overflow",
	"fix {scope} image format detection",
	"correct {scope} coordinate calculation",
}

var docsMessages = []string{
	"update {scope} documentation",
	"add {scope} usage examples",
	"improve {scope} README",
	"document {scope} API",
	"add {scope} installation guide",
	"update {scope} code comments",
	"improve {scope} inline documentation",
	"add {scope} troubleshooting section",
	"document {scope} configuration",
	"update {scope} changelog",
	"add {scope} architecture docs",
	"improve {scope} user guide",
	"document {scope} best practices",
	"add {scope} API reference",
	"update {scope} examples",
	"improve {scope} documentation structure",
	"add {scope} contribution guidelines",
	"document {scope} error codes",
	"update {scope} performance notes",
	"add {scope} deployment guide",
}

var styleMessages = []string{
	"format {scope} code",
	"apply code style to {scope}",
	"clean up {scope} formatting",
	"standardize {scope} code style",
	"fix {scope} linting issues",
	"improve {scope} code readability",
	"refactor {scope} formatting",
	"clean up {scope} whitespace",
	"standardize {scope} naming",
	"fix {scope} indentation",
	"improve {scope} code structure",
	"format {scope} imports",
	"clean up {scope} comments",
	"standardize {scope} docstrings",
}

var refactorMessages = []string{
	"refactor {scope} module",
	"restructure {scope} code",
	"improve {scope} architecture",
	"optimize {scope} structure",
	"refactor {scope} functions",
	"restructure {scope} classes",
	"improve {scope} design patterns",
	"refactor {scope} error handling",
	"optimize {scope} code organization",
	"restructure {scope} components",
	"improve {scope} separation of concerns",
	"refactor {scope} initialization",
	"optimize {scope} data flow",
	"restructure {scope} file structure",
	"improve {scope} modularity",
}

var perfMessages = []string{
	"optimize {scope} performance",
	"improve {scope} speed",
	"reduce {scope} memory usage",
	"optimize {scope} processing",
	"improve {scope} efficiency",
	"reduce {scope} CPU usage",
	"optimize {scope} algorithm",
	"improve {scope} response time",
	"reduce {scope} latency",
	"optimize {scope} resource usage",
	"improve {scope} throughput",
	"reduce {scope} overhead",
	"optimize {scope} image processing",
	"improve {scope} frame rate",
	"reduce {scope} processing time",
}

var testMessages = []string{
	"add {scope} unit tests",
	"implement {scope} test suite",
	"add {scope} integration tests",
	"improve {scope} test coverage",
	"add {scope} test cases",
	"implement {scope} test fixtures",
	"add {scope} mock tests",
	"improve {scope} test reliability",
	"add {scope} edge case tests",
	"implement {scope} performance tests",
	"add {scope} regression tests",
	"improve {scope} test documentation",
	"add {scope} test utilities",
	"implement {scope} test automation",
	"add {scope} validation tests",
}

var choreMessages = []string{
	"update {scope} dependencies",
	"bump {scope} version",
	"clean up {scope} files",
	"update {scope} configuration",
	"improve {scope} build process",
	"update {scope} gitignore",
	"clean up {scope} temporary files",
	"update {scope} license",
	"improve {scope} project structure",
	"update {scope} CI/CD",
	"clean up {scope} unused code",
	"update {scope} metadata",
	"improve {scope} deployment",
	"update {scope} scripts",
	"clean up {scope} artifacts",
}

var buildMessages = []string{
	"update {scope} build configuration",
	"improve {scope} build process",
	"fix {scope} build errors",
	"optimize {scope} build time",
	"update {scope} build dependencies",
	"improve {scope} build scripts",
	"fix {scope} compilation issues",
	"update {scope} build tools",
	"improve {scope} packaging",
	"fix {scope} build warnings",
}

var ciMessages = []string{
	"update {scope} CI pipeline",
	"improve {scope} CI configuration",
	"add {scope} CI tests",
	"fix {scope} CI failures",
	"optimize {scope} CI workflow",
	"update {scope} CI dependencies",
	"improve {scope} CI reporting",
	"add {scope} CI validation",
	"fix {scope} CI timeout",
	"update {scope} CI environment",
}

var revertMessages = []string{
	"revert {scope} changes",
	"undo {scope} modification",
}

// messageTemplates maps each commit type to its template list
var messageTemplates = map[string][]string{
	"feat":     featMessages,
	"fix":      fixMessages,
	"docs":     docsMessages,
	"style":    styleMessages,
	"refactor": refactorMessages,
	"perf":     perfMessages,
	"test":     testMessages,
	"chore":    choreMessages,
	"build":    buildMessages,
	"ci":       ciMessages,
	"revert":   revertMessages,
}

// detailSuffixes are occasionally appended to the subject line
var detailSuffixes = []string{
	"with improved error handling",
	"with comprehensive logging",
	"with unit tests",
	"with performance optimizations",
	"with better documentation",
	"following best practices",
	"with enhanced security",
	"with input validation",
	"with proper error messages",
	"with code comments",
	"with type annotations",
	"with async support",
	"with caching mechanism",
	"with retry logic",
	"with timeout handling",
	"with resource cleanup",
	"with memory optimization",
	"with thread safety",
	"with exception handling",
	"with validation checks",
}
