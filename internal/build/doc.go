// Package build provides the build execution pipeline for pagebuilder.
//
// All entry points (CLI, HTTP trigger, scheduler) run builds through Service.
// A build resets and repopulates the shared global-assets directory and then
// renders each page config strictly in order. Runs never overlap.
package build
