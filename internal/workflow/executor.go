package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

const (
	workflowExecutionErrorTemplateConstant = "workflow step %d (%s) failed: %w"
	workflowExecutorDependenciesMessage    = "workflow executor requires an errand provider"
	workflowStepStartedMessageConstant     = "Running workflow step"
	workflowCompletedMessageConstant       = "Workflow completed"
	logFieldStepConstant                   = "step"
	logFieldErrandConstant                 = "errand"
	logFieldStepsConstant                  = "steps"
)

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Errands  ErrandProvider
	Defaults Defaults
	Output   io.Writer
	Logger   *zap.Logger
	Now      func() time.Time
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun bool
}

// Executor runs workflow operations in order.
type Executor struct {
	operations   []Operation
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, dependencies Dependencies) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), dependencies: dependencies}
}

// Execute runs every operation sequentially. The first failing step stops the workflow.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) error {
	if executor.dependencies.Errands == nil {
		return errors.New(workflowExecutorDependenciesMessage)
	}

	environment := &Environment{
		Errands:  executor.dependencies.Errands,
		Defaults: executor.dependencies.Defaults,
		Output:   executor.dependencies.Output,
		Logger:   executor.dependencies.Logger,
		Now:      executor.dependencies.Now,
		DryRun:   runtimeOptions.DryRun,
	}
	if environment.Output == nil {
		environment.Output = io.Discard
	}
	if environment.Logger == nil {
		environment.Logger = zap.NewNop()
	}
	if environment.Now == nil {
		environment.Now = time.Now
	}

	for operationIndex, operation := range executor.operations {
		if operation == nil {
			continue
		}
		environment.Logger.Info(workflowStepStartedMessageConstant, zap.Int(logFieldStepConstant, operationIndex+1), zap.String(logFieldErrandConstant, operation.Name()))
		if executeError := operation.Execute(executionContext, environment); executeError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operationIndex+1, operation.Name(), executeError)
		}
	}

	environment.Logger.Info(workflowCompletedMessageConstant, zap.Int(logFieldStepsConstant, len(executor.operations)))
	return nil
}
