package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/scope"
)

func ptr(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_SuperAdminSinRestriccionEnPanel(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleSuperAdmin, Portal: entity.PortalAdmin})
	require.NoError(t, err)
	assert.True(t, s.AllCompanies)
	assert.True(t, s.IsCompanyWide)
	assert.Nil(t, s.BusinessUnitIDs)
	assert.True(t, s.Contains(99, ptr(1)))
	assert.Equal(t, "all", s.Key())
}

func TestResolve_SuperAdminConFiltroDeEmpresa(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleSuperAdmin, Portal: entity.PortalAdmin, CompanyFilter: ptr(4)})
	require.NoError(t, err)
	assert.False(t, s.AllCompanies)
	assert.Equal(t, int64(4), s.CompanyID)
	assert.True(t, s.Contains(4, nil))
	assert.False(t, s.Contains(5, nil))
}

func TestResolve_SuperAdminEnPortalTenantRechazado(t *testing.T) {
	_, err := scope.Resolve(scope.Input{Role: entity.RoleSuperAdmin, Portal: entity.PortalTenant, UserCompanyID: 3})
	assert.ErrorIs(t, err, domain.ErrUseAdminPanel)
}

func TestResolve_AdminSinUnidadesEsEmpresaCompleta(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalTenant, UserCompanyID: 3})
	require.NoError(t, err)
	assert.True(t, s.IsCompanyWide)
	assert.Nil(t, s.BusinessUnitIDs)
	assert.True(t, s.Contains(3, ptr(12)))
	assert.True(t, s.Contains(3, nil))
	assert.False(t, s.Contains(4, nil))
	assert.Equal(t, "c3:*", s.Key())
}

func TestResolve_AdminUsaPrimeraUnidadAsignada(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{8, 2}})
	require.NoError(t, err)
	assert.False(t, s.IsCompanyWide)
	assert.Equal(t, []int64{8}, s.BusinessUnitIDs)
}

func TestResolve_AdminPrefiereUnidadActiva(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{8}, ActiveUnitID: ptr(11)})
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, s.BusinessUnitIDs)
	assert.Equal(t, "c3:u11", s.Key())
}

func TestResolve_SupervisorSinActivaVeSusUnidades(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleSupervisor, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{7, 5}})
	require.NoError(t, err)
	assert.False(t, s.IsCompanyWide)
	assert.Equal(t, []int64{7, 5}, s.BusinessUnitIDs)
	assert.Equal(t, "c3:u5,7", s.Key())
}

func TestResolve_SupervisorIgnoraActivaNoAsignada(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleSupervisor, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{5, 7}, ActiveUnitID: ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 7}, s.BusinessUnitIDs)
}

func TestResolve_OperadorConActivaAsignada(t *testing.T) {
	s, err := scope.Resolve(scope.Input{Role: entity.RoleOperator, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{9}, ActiveUnitID: ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, s.BusinessUnitIDs)
	assert.True(t, s.Contains(3, ptr(9)))
	assert.False(t, s.Contains(3, ptr(10)))
	assert.False(t, s.Contains(3, nil))
}

func TestResolve_RolAcotadoSinUnidadesNoSeResuelve(t *testing.T) {
	for _, r := range []entity.Role{entity.RoleSupervisor, entity.RoleOperator, entity.RoleAuditor} {
		_, err := scope.Resolve(scope.Input{Role: r, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{0}})
		assert.ErrorIs(t, err, domain.ErrScopeUnresolvable, "rol %s", r)
	}
}

func TestResolve_EmpresaDesconocidaNoSeResuelve(t *testing.T) {
	_, err := scope.Resolve(scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalTenant})
	assert.ErrorIs(t, err, domain.ErrScopeUnresolvable)
}

func TestResolve_RolDeTenantEnPanelAdmin(t *testing.T) {
	_, err := scope.Resolve(scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalAdmin, UserCompanyID: 3})
	assert.ErrorIs(t, err, domain.ErrUseTenantPortal)
}

// ──────────────────────────────────────────────────────────────────────────────
// Enabled
// ──────────────────────────────────────────────────────────────────────────────

func TestEnabled_SegunRequisito(t *testing.T) {
	unit := scope.EffectiveScope{Role: entity.RoleOperator, CompanyID: 3, BusinessUnitIDs: []int64{9}}
	assert.True(t, unit.Enabled(scope.RequireCompany))
	assert.True(t, unit.Enabled(scope.RequireBusinessUnit))

	noUnits := scope.EffectiveScope{Role: entity.RoleOperator, CompanyID: 3}
	assert.True(t, noUnits.Enabled(scope.RequireCompany))
	assert.False(t, noUnits.Enabled(scope.RequireBusinessUnit))

	assert.False(t, scope.EffectiveScope{}.Enabled(scope.RequireCompany))
	assert.True(t, scope.EffectiveScope{AllCompanies: true}.Enabled(scope.RequireBusinessUnit))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateActiveUnit y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateActiveUnit(t *testing.T) {
	sup := scope.Input{Role: entity.RoleSupervisor, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{5, 7}}
	admin := scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalTenant, UserCompanyID: 3}

	assert.NoError(t, scope.ValidateActiveUnit(sup, entity.BusinessUnit{ID: 5, CompanyID: 3, IsActive: true}))
	assert.ErrorIs(t, scope.ValidateActiveUnit(sup, entity.BusinessUnit{ID: 9, CompanyID: 3, IsActive: true}), domain.ErrOutOfScope)
	assert.NoError(t, scope.ValidateActiveUnit(admin, entity.BusinessUnit{ID: 9, CompanyID: 3, IsActive: true}))
	assert.ErrorIs(t, scope.ValidateActiveUnit(admin, entity.BusinessUnit{ID: 9, CompanyID: 4, IsActive: true}), domain.ErrOutOfScope)
	assert.ErrorIs(t, scope.ValidateActiveUnit(admin, entity.BusinessUnit{ID: 9, CompanyID: 3}), domain.ErrInvalidInput)
}

func TestCan_TablaDePermisos(t *testing.T) {
	assert.True(t, scope.Can(entity.RoleSuperAdmin, entity.KindCompany, scope.ActionDeactivate))
	assert.True(t, scope.Can(entity.RoleAdmin, entity.KindDriver, scope.ActionDeactivate))
	assert.False(t, scope.Can(entity.RoleAdmin, entity.KindCompany, scope.ActionCreate))
	assert.True(t, scope.Can(entity.RoleSupervisor, entity.KindResource, scope.ActionUpdate))
	assert.False(t, scope.Can(entity.RoleSupervisor, entity.KindResource, scope.ActionDeactivate))
	assert.True(t, scope.Can(entity.RoleOperator, entity.KindFuelEvent, scope.ActionCreate))
	assert.False(t, scope.Can(entity.RoleOperator, entity.KindDriver, scope.ActionCreate))
	assert.False(t, scope.Can(entity.RoleOperator, entity.KindUser, scope.ActionRead))
	assert.True(t, scope.Can(entity.RoleAuditor, entity.KindTrip, scope.ActionRead))
	assert.False(t, scope.Can(entity.RoleAuditor, entity.KindTrip, scope.ActionCreate))

	perms := scope.EffectiveScope{Role: entity.RoleAuditor}.Permissions()
	assert.Equal(t, []scope.Action{scope.ActionRead}, perms[entity.KindFuelEvent])
}

func TestCatalogScope_AdminVeTodaLaEmpresa(t *testing.T) {
	s, err := scope.CatalogScope(scope.Input{Role: entity.RoleAdmin, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{8}, ActiveUnitID: ptr(8)})
	require.NoError(t, err)
	assert.True(t, s.IsCompanyWide)

	sup, err := scope.CatalogScope(scope.Input{Role: entity.RoleSupervisor, Portal: entity.PortalTenant, UserCompanyID: 3, UserBusinessUnitIDs: []int64{5, 7}, ActiveUnitID: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 7}, sup.BusinessUnitIDs)
}

func TestContainsAny_AlgunaUnidadEnElAlcance(t *testing.T) {
	sc := scope.EffectiveScope{Role: entity.RoleSupervisor, CompanyID: 3, BusinessUnitIDs: []int64{5}}
	assert.True(t, sc.ContainsAny(3, []int64{9, 5}))
	assert.False(t, sc.ContainsAny(3, []int64{9}))
	assert.False(t, sc.ContainsAny(3, nil))
	assert.False(t, sc.ContainsAny(4, []int64{5}))

	wide := scope.EffectiveScope{Role: entity.RoleAdmin, CompanyID: 3, IsCompanyWide: true}
	assert.True(t, wide.ContainsAny(3, nil))
}
