package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// Test Plan for PHP Parser:
// - A statement-level namespace qualifies the classes that follow it
// - Typed and untyped properties are extracted without the $ sigil
// - Static properties are skipped
// - Promoted constructor parameters become properties
// - Traits are recorded; interfaces and functions are not

func TestPhpParser_Classes(t *testing.T) {
	t.Parallel()

	src := `<?php
namespace App\Models;

interface HasName {}

class User {
    public string $name;
    private ?int $age = null;
    public static int $count = 0;
    protected $legacy, $other;

    public function __construct(private string $email) {}
    public function rename(string $name): void {}
}

trait Timestamps {
    public int $createdAt;
}

function helper() {}
`
	result := parseSource(t, NewPhpParser(), "User.php", src)

	assert.Equal(t, "php", result.Language)
	assert.Equal(t, []string{`App\Models\User`, `App\Models\Timestamps`}, declNames(result))

	user := findDecl(t, result, `App\Models\User`)
	assert.Equal(t, "class", user.Kind)
	assert.Equal(t, []extraction.Member{
		{Type: "string", Name: `App\Models\User::name`},
		{Type: "?int", Name: `App\Models\User::age`},
		{Type: "mixed", Name: `App\Models\User::legacy`},
		{Type: "mixed", Name: `App\Models\User::other`},
		{Type: "string", Name: `App\Models\User::email`},
	}, user.Members)

	trait := findDecl(t, result, `App\Models\Timestamps`)
	assert.Equal(t, "trait", trait.Kind)
	assert.Len(t, trait.Members, 1)
}

func TestPhpParser_NamespaceBlocks(t *testing.T) {
	t.Parallel()

	src := `<?php
namespace First {
    class A { public int $x; }
}
namespace Second {
    class B { public int $y; }
}
`
	result := parseSource(t, NewPhpParser(), "blocks.php", src)

	assert.Equal(t, []string{`First\A`, `Second\B`}, declNames(result))
}
