package llmprovider

import (
	"context"
	"testing"
)

// fakeProvider is a minimal Provider implementation for registry tests.
type fakeProvider struct {
	id ProviderID
}

func (f *fakeProvider) Name() ProviderID          { return f.id }
func (f *fakeProvider) SupportsModel(string) bool { return true }

func (f *fakeProvider) GenerateResponse(ctx context.Context, req *GenerationRequest) (*GenerateResponse, error) {
	return &GenerateResponse{Text: "ok"}, nil
}

func (f *fakeProvider) StreamResponse(ctx context.Context, req *GenerationRequest) (<-chan Chunk, error) {
	ch := make(chan Chunk)
	close(ch)
	return ch, nil
}

func TestProviderID(t *testing.T) {
	if ProviderOpenAI.String() != "openai" {
		t.Errorf("ProviderOpenAI.String() = %q", ProviderOpenAI.String())
	}

	valid := []ProviderID{ProviderOpenAI, ProviderAnthropic, ProviderLorem}
	for _, id := range valid {
		if !id.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", id)
		}
	}
	if ProviderID("mystery").IsValid() {
		t.Error("unknown provider reported valid")
	}
}

func TestGetProviderRegistry_Singleton(t *testing.T) {
	r1 := GetProviderRegistry()
	r2 := GetProviderRegistry()
	if r1 != r2 {
		t.Error("GetProviderRegistry returned different instances")
	}
}

func TestProviderRegistry_RegisterAndCreate(t *testing.T) {
	registry := &ProviderRegistry{providers: map[ProviderID]ProviderDefinition{}}

	created := &fakeProvider{id: "custom"}
	err := registry.Register(ProviderDefinition{
		ID:          "custom",
		Description: "test provider",
		Factory:     func() (Provider, error) { return created, nil },
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if !registry.IsRegistered("custom") {
		t.Error("IsRegistered = false after Register")
	}

	p, err := registry.Create("custom")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p != created {
		t.Error("Create returned a different provider instance")
	}

	if ids := registry.List(); len(ids) != 1 || ids[0] != "custom" {
		t.Errorf("List() = %v", ids)
	}
}

func TestProviderRegistry_RegisterErrors(t *testing.T) {
	registry := &ProviderRegistry{providers: map[ProviderID]ProviderDefinition{}}
	factory := func() (Provider, error) { return &fakeProvider{id: "x"}, nil }

	tests := []struct {
		name string
		def  ProviderDefinition
	}{
		{name: "missing id", def: ProviderDefinition{Factory: factory}},
		{name: "missing factory", def: ProviderDefinition{ID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := registry.Register(tt.def); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if err := registry.Register(ProviderDefinition{ID: "dup", Factory: factory}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := registry.Register(ProviderDefinition{ID: "dup", Factory: factory}); err == nil {
		t.Error("duplicate Register() did not error")
	}
}

func TestProviderRegistry_Unregister(t *testing.T) {
	registry := &ProviderRegistry{providers: map[ProviderID]ProviderDefinition{}}
	factory := func() (Provider, error) { return &fakeProvider{id: "x"}, nil }

	if err := registry.Register(ProviderDefinition{ID: "x", Factory: factory}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := registry.Unregister("x"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if registry.IsRegistered("x") {
		t.Error("provider still registered after Unregister")
	}
	if err := registry.Unregister("x"); err == nil {
		t.Error("second Unregister() did not error")
	}
}

func TestProviderRegistry_CreateUnknown(t *testing.T) {
	registry := &ProviderRegistry{providers: map[ProviderID]ProviderDefinition{}}
	if _, err := registry.Create("nope"); err == nil {
		t.Error("Create() for unknown provider did not error")
	}
}
