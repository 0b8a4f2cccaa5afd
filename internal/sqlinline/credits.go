package sqlinline

const QSelectCreditBalance = `--sql 899e0018-f0fa-40fb-bb19-9474545f7df2
select credit_balance
from businesses
where id = $1::uuid
limit 1;
`

// QGrantCredits adjusts the authoritative balance on the business row and
// appends the matching audit entry. A missing business affects zero rows.
const QGrantCredits = `--sql a790fe3d-b580-4b0a-a714-7012b4c8ef49
with input as (
  select $1::uuid as business_id, $2::int as delta, $3::text as reason
),
bal as (
  update businesses b
  set credit_balance = b.credit_balance + (select delta from input),
      updated_at     = now()
  where b.id = (select business_id from input)
  returning b.id
)
insert into credit_ledger(id, business_id, delta, reason, created_at)
select gen_random_uuid(), business_id, delta, reason, now()
from input
where exists (select 1 from bal);
`

const QListCreditEntries = `--sql 6cdcb3ff-bf47-47a1-8f75-e32c42d17535
select
  id,
  business_id,
  delta,
  reason,
  coalesce(job_id::text, ''),
  created_at
from credit_ledger
where business_id = $1::uuid
order by created_at desc
limit $2::int;
`
