// Package main provides the entry point of the Data Store web service.
// The service renders the sign-in, registration, onboarding and dashboard
// pages with Fiber, keeps accounts in a gorm backed credential store and
// guards every page with a navigation middleware that consults the
// internal user API for the onboarding state of signed-in users.
package main
