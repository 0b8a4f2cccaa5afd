package sqlinline

const QInsertBusiness = `--sql 72bc1957-efda-4bb2-85c8-32c7737f3f02
with input as (
  select
    gen_random_uuid()                    as business_id,
    nullif($1::text, '')::uuid           as owner_id,
    $2::text                             as name,
    nullif($3::text, '')                 as tagline,
    nullif($4::text, '')                 as brand_voice,
    coalesce($5::jsonb, '{}'::jsonb)     as colors,
    coalesce($6::jsonb, '[]'::jsonb)     as offerings,
    coalesce($7::jsonb, '[]'::jsonb)     as hours,
    coalesce($8::jsonb, '{}'::jsonb)     as contact,
    nullif($9::text, '')                 as logo_url,
    nullif($10::text, '')                as compliance,
    coalesce($11::jsonb, '[]'::jsonb)    as subjects,
    coalesce($12::jsonb, '[]'::jsonb)    as styles,
    nullif($13::text, '')                as social_location_id,
    $14::int                             as signup_grant
),
biz as (
  insert into businesses(
    id, owner_id, name, tagline, brand_voice, colors, offerings, hours,
    contact, logo_url, compliance, subjects, styles, social_location_id,
    credit_balance, created_at, updated_at
  )
  select
    business_id, owner_id, name, tagline, brand_voice, colors, offerings,
    hours, contact, logo_url, compliance, subjects, styles,
    social_location_id, greatest(signup_grant, 0), now(), now()
  from input
  returning id, created_at, updated_at
),
grant_row as (
  insert into credit_ledger(id, business_id, delta, reason, created_at)
  select gen_random_uuid(), business_id, signup_grant, 'signup_grant', now()
  from input
  where signup_grant > 0
)
select id, created_at, updated_at from biz;
`

const QSelectBusinessByID = `--sql 7f93eda3-b904-48e0-ac59-fda3716a30fe
select
  id,
  coalesce(owner_id::text, ''),
  name,
  coalesce(tagline, ''),
  coalesce(brand_voice, ''),
  colors,
  offerings,
  hours,
  contact,
  coalesce(logo_url, ''),
  coalesce(compliance, ''),
  subjects,
  styles,
  coalesce(social_location_id, ''),
  credit_balance,
  created_at,
  updated_at
from businesses
where id = $1::uuid
limit 1;
`

const QUpdateBusiness = `--sql d65bbe67-74ff-47aa-a7ae-699c18e6fcd6
update businesses
set
  name               = $2::text,
  tagline            = nullif($3::text, ''),
  brand_voice        = nullif($4::text, ''),
  colors             = coalesce($5::jsonb, '{}'::jsonb),
  offerings          = coalesce($6::jsonb, '[]'::jsonb),
  hours              = coalesce($7::jsonb, '[]'::jsonb),
  contact            = coalesce($8::jsonb, '{}'::jsonb),
  logo_url           = nullif($9::text, ''),
  compliance         = nullif($10::text, ''),
  subjects           = coalesce($11::jsonb, '[]'::jsonb),
  styles             = coalesce($12::jsonb, '[]'::jsonb),
  social_location_id = nullif($13::text, ''),
  updated_at         = now()
where id = $1::uuid
returning updated_at;
`
