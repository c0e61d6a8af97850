// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated data from the handlers, performs business operations, and
// calls repository methods to interact with the data.
package service
