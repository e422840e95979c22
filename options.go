package spmeta

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"

	"github.com/samlkit/spmeta/models/metadata"
)

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

type generatorOptions struct {
	logger            hclog.Logger
	clock             clockwork.Clock
	validity          time.Duration
	cacheDuration     time.Duration
	keyInfoGenerators map[string]KeyInfoGenerator
	organization      *metadata.Organization
	contactPersons    []metadata.ContactPerson
}

func generatorOptionsDefault() generatorOptions {
	return generatorOptions{
		logger: hclog.New(&hclog.LoggerOptions{Name: "spmeta"}),
		clock:  clockwork.NewRealClock(),
		keyInfoGenerators: map[string]KeyInfoGenerator{
			"": X509KeyInfoGenerator,
		},
	}
}

func getGeneratorOpts(opt ...Option) generatorOptions {
	opts := generatorOptionsDefault()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger for the generator. Recoverable
// conditions (unknown binding tokens, omitted key descriptors) are reported
// through it.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.logger = l
		}
	}
}

// WithClock changes the clock used when stamping validUntil.
func WithClock(clock clockwork.Clock) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.clock = clock
		}
	}
}

// WithValidity sets the duration for which generated documents declare
// themselves valid. Zero leaves the validUntil attribute out.
func WithValidity(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.validity = d
		}
	}
}

// WithCacheDuration sets the cacheDuration attribute of generated documents.
// Zero leaves the attribute out.
func WithCacheDuration(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.cacheDuration = d
		}
	}
}

// WithKeyInfoGenerator registers a named key info generator which can be
// selected through the KeyInfoGeneratorName field of the extended metadata
// template. Registering under the empty name replaces the default generator.
func WithKeyInfoGenerator(name string, gen KeyInfoGenerator) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.keyInfoGenerators[name] = gen
		}
	}
}

// WithOrganization sets the organization element of generated entity
// descriptors.
func WithOrganization(org *metadata.Organization) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.organization = org
		}
	}
}

// WithContactPerson appends a contact person element to generated entity
// descriptors.
func WithContactPerson(cp metadata.ContactPerson) Option {
	return func(o interface{}) {
		if o, ok := o.(*generatorOptions); ok {
			o.contactPersons = append(o.contactPersons, cp)
		}
	}
}
