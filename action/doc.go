// Package action defines the named actions a ReAct run can execute. An
// action is an opaque function with a declared argument schema; the engine
// treats execution as a black box and only records the observation text it
// returns. Definitions can be registered globally so engines resolve actions
// by name at run time.
package action
