// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - DescriptorStore: knot.json persistence
//   - TapConfigProvider: Config fields per tap
//   - DiscoveryRunner: Stages config and runs the discovery command
//   - SchemaReader: Reads the discovered catalog
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Discovery run history. Without it, runs are not recorded.
//   - DescriptorWatcher: Change notifications for status --watch.
//   - DockerProbe, KnotLister: Environment collaborators.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
