package sysmodel

// Partition is one contiguous slice of a component, assigned to exactly one
// resource in a feasible solution.
type Partition struct {
	Name          string
	Memory        float64
	PartLambda    float64 // derived: lambda_p0 = lambda_c, lambda_p(k+1) = lambda_pk * (1 - p_ee(pk))
	EarlyExitProb float64 // p_ee in [0,1]
	Next          string  // name of next partition, or next component if last in deployment
	DataSize      float64 // bytes transferred to the next step
}

// Deployment is a named ordered subset of a component's partitions — a
// candidate splitting. PartitionIndices preserves the linear chain order
// established by Partition.Next.
type Deployment struct {
	Name             string
	PartitionIndices []int
}

// Component is one DAG node: an AI processing stage.
type Component struct {
	Name        string
	Deployments []Deployment
	Partitions  []Partition
	Lambda      float64 // derived component-level arrival rate
}

// Partition returns the partition at idx.
func (c *Component) Partition(idx int) *Partition { return &c.Partitions[idx] }

// computePartitionLambdas fills in PartLambda along one deployment's chain,
// given the component's own lambda. lambda_p0 = lambda_c,
// lambda_p(k+1) = lambda_pk * (1 - p_ee(pk)).
func (c *Component) computePartitionLambdas(dep Deployment) {
	lambda := c.Lambda
	for _, pIdx := range dep.PartitionIndices {
		c.Partitions[pIdx].PartLambda = lambda
		lambda = lambda * (1 - c.Partitions[pIdx].EarlyExitProb)
	}
}
