package main

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RunResult summarizes a finished collection run
type RunResult struct {
	Success      bool
	Counts       Counts
	Regions      []string
	Compartments []Compartment
	Duration     time.Duration
}

// Collector drives the region and compartment traversal and fills the run's store
type Collector struct {
	src          Source
	run          *Run
	collect      CollectConfig
	breakers     *Breakers
	showProgress bool
	progress     *ProgressTracker
	compartments *CompartmentIndex
}

// NewCollector creates a collector writing into run
func NewCollector(src Source, run *Run, collect CollectConfig, showProgress bool) *Collector {
	return &Collector{
		src:          src,
		run:          run,
		collect:      collect.normalized(),
		breakers:     NewBreakers(),
		showProgress: showProgress,
	}
}

// Run collects every selected region and builds the report. Each region's
// report is built as soon as its pass completes. A fatal error aborts the run
// and no report is returned.
func (c *Collector) Run(ctx context.Context, filter ScopeFilter) (*Report, RunResult, error) {
	result := RunResult{}
	started := time.Now()

	if err := filter.Validate(); err != nil {
		return nil, result, err
	}

	tenancy, err := c.src.GetTenancy(ctx, c.src.TenancyID())
	if err != nil {
		c.run.ServiceError("Failed to load tenancy: %v", err)
		return nil, result, fmt.Errorf("failed to load tenancy: %w", err)
	}

	subscriptions, err := c.src.ListRegionSubscriptions(ctx, tenancy.ID)
	if err != nil {
		c.run.ServiceError("Failed to load region subscriptions: %v", err)
		return nil, result, fmt.Errorf("failed to load region subscriptions: %w", err)
	}
	home, ok := homeRegion(subscriptions, tenancy)
	if !ok {
		return nil, result, fmt.Errorf("no home region among %d subscribed regions", len(subscriptions))
	}
	logger.Info("Tenancy %s, home region %s", tenancy.Name, home.Name)

	c.switchRegion(home.Name)

	idx, err := buildCompartmentTree(ctx, c.run, c.src, tenancy)
	if err != nil {
		c.run.ServiceError("Failed to load compartments: %v", err)
		return nil, result, err
	}
	c.compartments = idx
	Append(c.run.Store, SecCompartment, idx.All()...)

	if err := c.resolveExplicitCompartment(ctx, filter); err != nil {
		return nil, result, err
	}

	selected := ApplyCompartmentFilter(idx.All(), filter)
	regions := ApplyRegionFilter(subscriptions, filter)
	if len(selected) == 0 {
		logger.Warn("No compartment matches the compartment filter")
	}
	if len(regions) == 0 {
		logger.Warn("No subscribed region matches the region filter %q", filter.Region)
	}
	result.Compartments = selected

	builder := NewBuilder(c.run, idx)
	report := &Report{Header: newHeader(c.run, tenancy, home)}

	c.progress = NewProgressTracker(c.showProgress, c.totalSteps(len(regions), len(selected)))
	c.progress.Start()
	defer c.progress.Stop()

	if c.collect.Identity {
		if err := c.runPlan(ctx, identityPlan(), home.Name, selected); err != nil {
			return nil, result, err
		}
		report.Identity = builder.BuildIdentity(tenancy, selected)
	}

	for _, region := range regions {
		logger.Info("Processing region %s", region.Name)
		c.switchRegion(region.Name)

		if err := c.runPlan(ctx, regionPlan(), region.Name, selected); err != nil {
			return nil, result, err
		}

		// the region pass is complete, its sections can be joined
		report.Regions = append(report.Regions, builder.BuildRegion(region.Name, selected))
		result.Regions = append(result.Regions, region.Name)
	}

	for _, s := range c.run.Store.Summary() {
		logger.Verbose("Collected %d %s/%s", s.Count, s.Module, s.Section)
	}

	result.Success = true
	result.Counts = c.run.Counts()
	result.Duration = time.Since(started)
	return report, result, nil
}

// runPlan runs each enabled step of a plan across the selected compartments
func (c *Collector) runPlan(ctx context.Context, plan []step, region string, compartments []Compartment) error {
	root, _ := c.compartments.Root()

	for _, st := range plan {
		if !c.collect.enabled(st.module) {
			continue
		}

		if st.scope == perRegion {
			if err := c.runStep(ctx, st, Scope{Region: region, Compartment: root}); err != nil {
				return err
			}
			continue
		}

		for _, comp := range compartments {
			if err := c.runStep(ctx, st, Scope{Region: region, Compartment: comp}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Collector) runStep(ctx context.Context, st step, scope Scope) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	logger.Debug("Collecting %s in %s (%s)", st.name, scope.Compartment.Path, scope.Region)
	err := st.run(ctx, c, scope)
	c.progress.Step(st.name, scope.Compartment.Name)
	return err
}

// totalSteps counts the step executions of a run, for the progress bar
func (c *Collector) totalSteps(regions, compartments int) int {
	count := func(plan []step) int {
		n := 0
		for _, st := range plan {
			if !c.collect.enabled(st.module) {
				continue
			}
			if st.scope == perRegion {
				n++
			} else {
				n += compartments
			}
		}
		return n
	}

	total := regions * count(regionPlan())
	if c.collect.Identity {
		total += count(identityPlan())
	}
	return total
}

func (c *Collector) switchRegion(region string) {
	c.src.SetRegion(region)
	c.run.SetRegion(region)
}

// resolveExplicitCompartment fetches a compartment given by id that the tree
// walk did not reach, e.g. when the caller cannot list the tenancy.
func (c *Collector) resolveExplicitCompartment(ctx context.Context, filter ScopeFilter) error {
	if filter.CompartmentID == "" {
		return nil
	}
	if _, ok := c.compartments.Get(filter.CompartmentID); ok {
		return nil
	}

	comp, err := c.src.GetCompartment(ctx, filter.CompartmentID)
	if err != nil {
		return c.run.tolerate(err, "compartment "+filter.CompartmentID)
	}
	if !strings.EqualFold(comp.LifecycleState, compartmentActive) {
		c.run.Warning("Skipping compartment %s in state %s", comp.ID, comp.LifecycleState)
		return nil
	}
	if parent, ok := c.compartments.Get(comp.ParentID); ok {
		comp.Path = childPath(parent.Path, comp.Name)
		comp.Depth = parent.Depth + 1
	} else {
		comp.Path = "/ " + comp.Name
	}
	c.compartments.Add(comp)
	Append(c.run.Store, SecCompartment, comp)
	return nil
}

// homeRegion picks the home region from the subscriptions
func homeRegion(regions []Region, tenancy Tenancy) (Region, bool) {
	for _, r := range regions {
		if r.IsHomeRegion {
			return r, true
		}
	}
	for _, r := range regions {
		if tenancy.HomeRegionKey != "" && r.Key == tenancy.HomeRegionKey {
			return r, true
		}
	}
	return Region{}, false
}
