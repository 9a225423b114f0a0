package container

import "github.com/shuldan/ioc/pkg/errors"

var newBeanCode = errors.WithPrefix("BEAN")
var newContextCode = errors.WithPrefix("CONTEXT")

var (
	ErrMissingType    = newBeanCode().New("bean {{.name}} has no type")
	ErrMissingFactory = newBeanCode().New("bean {{.name}} has no factory")
	ErrFactoryFailed  = newBeanCode().New("factory of bean {{.name}} failed")
	ErrUnexpectedType = newBeanCode().New("factory of bean {{.name}} returned {{.actual}}, declared {{.expected}}")
	ErrInitFailed     = newBeanCode().New("init hook of bean {{.name}} failed")
	ErrDestroyFailed  = newBeanCode().New("destroy hook of bean {{.name}} failed")

	ErrDuplicateComponent  = newContextCode().New("bean {{.name}} is already registered in context {{.context}}")
	ErrNotFound            = newContextCode().New("bean {{.name}} not found in context {{.context}}")
	ErrNoCandidate         = newContextCode().New("no bean assignable to {{.capability}} in context {{.context}}")
	ErrAmbiguousCandidate  = newContextCode().New("{{.count}} beans assignable to {{.capability}} and none marked primary: {{.names}}")
	ErrUnexpectedDuplicate = newContextCode().New("bean {{.name}} was constructed twice in context {{.context}}")
	ErrCircularDependency  = newContextCode().New("circular dependency: {{.chain}}")
	ErrAlreadyInitialized  = newContextCode().New("context {{.context}} is already initialized")
	ErrInitFnFailed        = newContextCode().New("init function {{.name}} failed")
	ErrInvalidChild        = newContextCode().New("context {{.context}} cannot adopt {{.child}}")
)
