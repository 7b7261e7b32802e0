package controller

import "github.com/xraph/controller/id"

// ExecutionID identifies a single Execute call.
type ExecutionID = id.ExecutionID
