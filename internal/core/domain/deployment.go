package domain

// Deployment is the resolved structure of a deployment file: the build stage
// graph, the service dependency graph and the resource budget.
type Deployment struct {
	Stages   *StageGraph
	Services *ServiceGraph
	Budget   ResourceBudget

	// Root is the directory declared file inputs are resolved against.
	Root string
}
